package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/usecase"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgerror"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkglog"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgrouter"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkguid"
)

const maxMetadataBytes = 64 * 1024

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) OpenSession(ctx context.Context, r *http.Request) (any, error) {
	file, err := extractFile(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.SelectFile(ctx, usecase.SelectFileInput{File: file})
	if err != nil {
		return nil, err
	}

	return toSessionResponse(result, http.StatusCreated, "file selected"), nil
}

func (h *HTTPEndpoint) ReplaceFile(ctx context.Context, r *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	file, err := extractFile(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.SelectFile(ctx, usecase.SelectFileInput{SessionID: sessionID, File: file})
	if err != nil {
		return nil, err
	}

	return toSessionResponse(result, http.StatusOK, "file selected"), nil
}

func (h *HTTPEndpoint) Start(ctx context.Context, _ *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Start(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return toSessionResponse(result, http.StatusAccepted, "processing started"), nil
}

func (h *HTTPEndpoint) Status(ctx context.Context, _ *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Status(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return toSessionResponse(result, http.StatusOK, ""), nil
}

func (h *HTTPEndpoint) Back(ctx context.Context, _ *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Back(ctx, sessionID)
}

func (h *HTTPEndpoint) Download(ctx context.Context, _ *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Download(ctx, sessionID)
}

func (h *HTTPEndpoint) Report(ctx context.Context, _ *http.Request) (any, error) {
	ctx, sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Report(ctx, sessionID)
}

// sessionIDParam reads :session_id and tags ctx with it for logging.
func sessionIDParam(ctx context.Context) (context.Context, string, error) {
	sessionID := pkgrouter.GetParam(ctx, "session_id")
	if sessionID == "" {
		return ctx, "", pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}
	// ids are minted as UUIDs, anything else cannot exist
	if !pkguid.IsUUID(sessionID) {
		return ctx, "", pkgerror.NewBusiness("session not found", pkgerror.CodeNotFound)
	}
	return pkglog.SetSessionID(ctx, sessionID), sessionID, nil
}

// extractFile reads the file handle from either a multipart upload (part
// "file") or a JSON metadata body. Only metadata is kept.
func extractFile(r *http.Request) (entity.File, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return entity.File{}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	mediaType := ""
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return entity.File{}, pkgerror.NewInvalidFormat()
		}
		mediaType = strings.ToLower(parsed)
	}

	switch mediaType {
	case "multipart/form-data":
		return extractMultipartFile(r)
	case "application/json", "":
		return extractMetadata(r.Body)
	default:
		return entity.File{}, pkgerror.NewInvalidFormat()
	}
}

func extractMultipartFile(r *http.Request) (entity.File, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return entity.File{}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entity.File{}, pkgerror.NewInvalidInput(errors.New("file part is required"))
			}
			return entity.File{}, pkgerror.NewInvalidFormat()
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		// the content is counted and thrown away, never looked at
		size, err := io.Copy(io.Discard, part)
		_ = part.Close()
		if err != nil {
			return entity.File{}, pkgerror.NewInvalidFormat()
		}

		return entity.NewFile(part.FileName(), size, part.Header.Get("Content-Type")), nil
	}
}

func extractMetadata(body io.Reader) (entity.File, error) {
	var req FileMetadataRequest
	if err := json.NewDecoder(io.LimitReader(body, maxMetadataBytes)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return entity.File{}, pkgerror.NewInvalidInput(errors.New("empty request body"))
		}
		return entity.File{}, pkgerror.NewInvalidFormat()
	}

	return entity.NewFile(req.Name, req.Size, req.Type), nil
}

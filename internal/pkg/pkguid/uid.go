package pkguid

type StringID interface {
	Generate() string
}

type NumberID interface {
	Generate() int64
}

// StringIDFunc adapts a plain function to StringID.
type StringIDFunc func() string

func (f StringIDFunc) Generate() string {
	return f()
}

package bloom

// An Encoding maps an identifier to the byte sequence fed to the hash
// functions. It must be a pure function of the input and stable across
// process runs and serialize/deserialize cycles: if the bytes for an
// identifier ever change, previously inserted identifiers silently stop
// being recognized.
type Encoding interface {
	EncodeIdentifier(id string) []byte
}

// UTF8 encodes identifiers as their UTF-8 bytes. Go strings already hold
// UTF-8, so this is a direct byte copy with no locale or platform
// dependence. It is the default encoding.
var UTF8 Encoding = utf8Encoding{}

type utf8Encoding struct{}

func (utf8Encoding) EncodeIdentifier(id string) []byte { return []byte(id) }

package calls

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

var isPath = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*\.[a-z][a-zA-Z0-9_]*$`).MatchString

// Index locates a call in the runtime: the pallet index followed by the
// call index within that pallet.
type Index struct {
	Pallet uint8
	Call   uint8
}

func (i Index) String() string {
	return fmt.Sprintf("0x%02x%02x", i.Pallet, i.Call)
}

// DecodeFunc reads the arguments of a call. Calls that embed other calls
// read them using the registry.
type DecodeFunc func(r *Registry, d *scale.Decoder) (Msg, error)

// Call is decoded call data.
type Call struct {
	Index   Index
	Section string
	Method  string
	Msg     Msg
	// Raw is the complete call data, including the index.
	Raw []byte
}

// Path returns the section and the method, dot separated.
func (c *Call) Path() string {
	return c.Section + "." + c.Method
}

// Hash returns the hash of the call data.
func (c *Call) Hash() Hash {
	return HashOf(c.Raw)
}

type route struct {
	path   string
	decode DecodeFunc
}

// Registry keeps the call index and decoder of every known message type.
//
// Registration is not safe for concurrent use. Encoding and decoding are,
// once all routes are registered.
type Registry struct {
	byIndex map[Index]route
	byPath  map[string]Index
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIndex: make(map[Index]route),
		byPath:  make(map[string]Index),
	}
}

// Register binds a call path to an index. Registering a path again moves it
// to the new index, which is how runtime specific indexes are configured.
// Invalid paths panic, use this function only during startup.
func (r *Registry) Register(pallet, call uint8, path string, decode DecodeFunc) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid call path %q", path))
	}
	if decode == nil {
		panic(fmt.Sprintf("nil decoder for %q", path))
	}
	if old, ok := r.byPath[path]; ok {
		delete(r.byIndex, old)
	}
	idx := Index{Pallet: pallet, Call: call}
	if prev, ok := r.byIndex[idx]; ok {
		delete(r.byPath, prev.path)
	}
	r.byIndex[idx] = route{path: path, decode: decode}
	r.byPath[path] = idx
}

// Index returns the call index registered for given path.
func (r *Registry) Index(path string) (Index, bool) {
	idx, ok := r.byPath[path]
	return idx, ok
}

// Encode validates the message and returns its call data.
func (r *Registry) Encode(msg Msg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, msg.Path())
	}
	idx, ok := r.byPath[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnsupported, "call %q is not registered", msg.Path())
	}
	var e scale.Encoder
	e.U8(idx.Pallet)
	e.U8(idx.Call)
	if err := msg.MarshalSCALE(&e); err != nil {
		return nil, errors.Wrap(err, msg.Path())
	}
	if err := e.Err(); err != nil {
		return nil, errors.Wrap(err, msg.Path())
	}
	return e.Bytes(), nil
}

// Decode reads complete call data. Unknown call indexes, malformed
// arguments and trailing bytes fail with ErrDecode.
func (r *Registry) Decode(raw []byte) (*Call, error) {
	d := scale.NewDecoder(raw)
	c, err := r.ReadCall(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrapf(err, "call %s", c.Path())
	}
	return c, nil
}

// ReadCall reads one call from the decoder. It is used to decode calls
// embedded in other calls.
func (r *Registry) ReadCall(d *scale.Decoder) (*Call, error) {
	start := d.Offset()
	idx := Index{Pallet: d.U8(), Call: d.U8()}
	if err := d.Err(); err != nil {
		return nil, errors.Wrap(err, "call index")
	}
	rt, ok := r.byIndex[idx]
	if !ok {
		return nil, errors.Wrapf(errors.ErrDecode, "unknown call index %s", idx)
	}
	msg, err := rt.decode(r, d)
	if err == nil {
		err = d.Err()
	}
	if err != nil {
		if !errors.ErrDecode.Is(err) {
			err = errors.Wrap(errors.ErrDecode, err.Error())
		}
		return nil, errors.Wrapf(err, "call %s", rt.path)
	}
	section, method := splitPath(rt.path)
	return &Call{
		Index:   idx,
		Section: section,
		Method:  method,
		Msg:     msg,
		Raw:     d.Since(start),
	}, nil
}

func splitPath(path string) (string, string) {
	i := strings.IndexByte(path, '.')
	return path[:i], path[i+1:]
}

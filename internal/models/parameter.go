package models

// KeyValuePair is implemented by every editable key/value entity of a shortcut.
type KeyValuePair interface {
	Key() string
	SetKey(key string)
	Value() string
	SetValue(value string)
}

type ParameterID int64

// Parameter is a single named field of a request body.
type Parameter struct {
	id    ParameterID
	key   string
	value string
}

func NewParameter(id ParameterID, key, value string) Parameter {
	return Parameter{id: id, key: key, value: value}
}

func (p Parameter) ID() ParameterID {
	return p.id
}

func (p Parameter) Key() string {
	return p.key
}

func (p *Parameter) SetKey(key string) {
	p.key = key
}

func (p Parameter) Value() string {
	return p.value
}

func (p *Parameter) SetValue(value string) {
	p.value = value
}

// Header fields cannot be named Key and Value, those are the KeyValuePair
// methods; the tags keep the file format aligned with Pair.
type Header struct {
	Name    string `json:"key" yaml:"key"`
	Content string `json:"value" yaml:"value"`
}

func (h Header) Key() string {
	return h.Name
}

func (h *Header) SetKey(key string) {
	h.Name = key
}

func (h Header) Value() string {
	return h.Content
}

func (h *Header) SetValue(value string) {
	h.Content = value
}

// Pair is a plain key/value record, as handed to the request builder.
type Pair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

var (
	_ KeyValuePair = (*Parameter)(nil)
	_ KeyValuePair = (*Header)(nil)
)

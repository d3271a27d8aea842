package codec

import "encoding/json"

// JSON stores values as plain JSON: the slowest and largest option, but the
// blobs stay greppable on disk. `any`-typed numbers decode as float64.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

package sink

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns an Event into a message payload.
type Codec struct {
	Name        string
	ContentType string
	Marshal     func(Event) ([]byte, error)
	Unmarshal   func([]byte, *Event) error
}

var (
	JSON = Codec{
		Name:        "json",
		ContentType: "application/json",
		Marshal:     func(e Event) ([]byte, error) { return json.Marshal(e) },
		Unmarshal:   func(b []byte, e *Event) error { return json.Unmarshal(b, e) },
	}
	MsgPack = Codec{
		Name:        "msgpack",
		ContentType: "application/msgpack",
		Marshal:     func(e Event) ([]byte, error) { return msgpack.Marshal(e) },
		Unmarshal:   func(b []byte, e *Event) error { return msgpack.Unmarshal(b, e) },
	}
)

func CodecByName(name string) (Codec, error) {
	switch name {
	case "", JSON.Name:
		return JSON, nil
	case MsgPack.Name:
		return MsgPack, nil
	}
	return Codec{}, fmt.Errorf("unknown codec %q", name)
}

package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fileproc/sink"
)

/* ────────── config ────────── */
type Config struct {
	Out    io.Writer // nil → os.Stdout
	Pretty bool      // json only
	Codec  sink.Codec
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Codec.Marshal == nil {
		c.Codec = sink.JSON
	}
	d.cfg = c
	return nil
}

// Push prints JSON as one line per event; other codecs are written raw.
func (d *driver) Push(_ context.Context, ev sink.Event) error {
	if d.cfg.Codec.Name == sink.JSON.Name {
		enc := json.NewEncoder(d.cfg.Out)
		if d.cfg.Pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(ev)
	}
	b, err := d.cfg.Codec.Marshal(ev)
	if err != nil {
		return fmt.Errorf("stdout-sink: %s encode: %w", d.cfg.Codec.Name, err)
	}
	_, err = d.cfg.Out.Write(b)
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}

package export

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"schematic/canvas"
	"schematic/diagram"
	"schematic/render"
)

// DisplayListExporter records the drawing calls and encodes them as JSON or
// MessagePack.
type DisplayListExporter struct {
	opts     Options
	encoding Format
}

// Export renders d onto a recorder and encodes the display list.
func (e *DisplayListExporter) Export(d *diagram.Document) ([]byte, *render.Result, error) {
	if err := CheckPage(d, e.opts.MaxPageSize); err != nil {
		return nil, nil, err
	}
	rec := canvas.NewRecorder()
	res, err := e.opts.renderer().Render(d, rec)
	if err != nil {
		return nil, nil, err
	}
	list := rec.DisplayList(d.Width(), d.Height())

	var data []byte
	switch e.encoding {
	case FormatMsgpack:
		data, err = msgpack.Marshal(&list)
	default:
		data, err = json.MarshalIndent(list, "", "  ")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode display list: %w", err)
	}
	return data, res, nil
}

func (e *DisplayListExporter) FileExtension() string {
	if e.encoding == FormatMsgpack {
		return ".msgpack"
	}
	return ".json"
}

func (e *DisplayListExporter) FormatName() string {
	if e.encoding == FormatMsgpack {
		return "MessagePack"
	}
	return "JSON"
}

func (e *DisplayListExporter) ContentType() string {
	if e.encoding == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

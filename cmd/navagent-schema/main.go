package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/stream"
)

var messageFlag = flag.String("message", "state", "Message schema to print: state, scene")

// errUnknownMessage rejects message names the stream never sends
var errUnknownMessage = errors.New("unknown message")

func main() {
	flag.Parse()

	if err := writeSchema(os.Stdout, *messageFlag); err != nil {
		fmt.Fprintf(os.Stderr, "navagent-schema: %v\n", err)
		if errors.Is(err, errUnknownMessage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// schemaFor reflects the wire type behind a stream message name
func schemaFor(message string) (*jsonschema.Schema, error) {
	var v any
	switch message {
	case stream.TypeState:
		v = &stream.Snapshot{}
	case stream.TypeScene:
		v = &stream.SceneMessage{}
	default:
		return nil, errors.Wrapf(errUnknownMessage, "%q", message)
	}

	r := &jsonschema.Reflector{ExpandedStruct: true}
	return r.Reflect(v), nil
}

func writeSchema(w io.Writer, message string) error {
	schema, err := schemaFor(message)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(schema), "encode schema")
}

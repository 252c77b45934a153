package router

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

// bindRequest fills a typed request from the incoming query string (GET) or
// JSON body (everything else). Query values are decoded weakly, so numeric
// fields accept their string form.
func bindRequest(req *http.Request, target any) error {
	if req.Method == http.MethodGet {
		values := map[string]string{}
		for key := range req.URL.Query() {
			values[key] = req.URL.Query().Get(key)
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           target,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(values)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, target)
}

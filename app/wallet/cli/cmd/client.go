package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
)

// client is used for every call to the node. Mining can take a while.
var client = http.Client{
	Timeout: 2 * time.Minute,
}

// call sends the body as JSON and decodes the response into resp. A failed
// call returns the error message the node reported.
func call(method string, url string, body any, resp any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var er errs.Response
		if err := json.NewDecoder(res.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned %s", res.Status)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("node returned %s: %s %v", res.Status, er.Error, er.Fields)
		}
		return fmt.Errorf("node returned %s: %s", res.Status, er.Error)
	}

	if resp == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(resp)
}

package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Dump writes every response the client receives, along with the request
// that produced it, to output. Exchanges are numbered in the order their
// responses arrive, starting at 1.
func Dump(client *resty.Client, output Output) {
	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d", counter.Add(1))
		output.Write(id, formatHttpMessage(res))
		return nil
	})
}

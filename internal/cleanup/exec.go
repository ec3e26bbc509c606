package cleanup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DeleteImageExec returns an ExecFunc handling "delete-image" actions by
// issuing a DELETE to the image's storage URL. Inline data URIs have nothing
// to delete and are skipped.
func DeleteImageExec(log zerolog.Logger) ExecFunc {
	client := resty.New().SetTimeout(15 * time.Second)
	return func(ctx context.Context, a Action) error {
		if a.Kind != "delete-image" {
			return fmt.Errorf("unknown action kind %q", a.Kind)
		}
		if strings.HasPrefix(a.Target, "data:") {
			return nil
		}
		resp, err := client.R().SetContext(ctx).Delete(a.Target)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("storage returned %d for %s", resp.StatusCode(), a.Target)
		}
		log.Debug().Str("target", a.Target).Msg("stale image deleted")
		return nil
	}
}

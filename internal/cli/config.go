package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/aicode/internal/config"
	"github.com/aretw0/aicode/internal/logging"
)

// PrintConfig writes the resolved configuration and where it came from.
func PrintConfig(w io.Writer, opts ChatOptions) error {
	store, err := openStore(opts, logging.NewNop())
	if err != nil {
		return err
	}
	data, err := config.Encode(store.Config())
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	fmt.Fprintf(w, "# %s\n", store.Path())
	_, err = w.Write(data)
	return err
}

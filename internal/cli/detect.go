package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gin-mime/mimetypes"

	"github.com/spf13/cobra"
)

func newDetectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>...",
		Short: "Sniff files and print their registered type",
		Long: `Sniff the leading bytes of each file and print the registered type it
maps to. A detected type that is not registered falls back to its more
generic parents; "-" reads standard input.

Examples:
  mimectl detect logo.png report.pdf
  cat payload.json | mimectl detect -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list detectionList
			for _, name := range args {
				key, err := a.detectFile(cmd.InOrStdin(), name)
				if err != nil {
					return err
				}
				d := detection{File: name, Key: key}
				if desc, ok := a.reg.Lookup(key); ok {
					d.ContentType = desc.ContentType
				}
				list.Files = append(list.Files, d)
			}
			return a.write(cmd.OutOrStdout(), list)
		},
	}
}

func (a *app) detectFile(stdin io.Reader, name string) (string, error) {
	rd := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return "", err
		}
		defer f.Close()
		rd = f
	}

	key, err := a.reg.DetectReader(rd)
	if errors.Is(err, mimetypes.ErrUnknownMimeType) {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return key, err
}

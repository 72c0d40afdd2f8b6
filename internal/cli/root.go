package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gin-mime/internal/debug"
	"gin-mime/mimetypes"
	"gin-mime/render"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by mimectl, e.g. MIMECTL_OUTPUT.
const EnvPrefix = "MIMECTL"

const outputTable = "table"

var version = "dev"

// app is the state shared by the subcommands of one invocation.
type app struct {
	v    *viper.Viper
	reg  *mimetypes.Registry
	disp *render.Dispatcher
}

// NewRootCommand returns the mimectl command tree. Each call has its own
// viper instance and registry.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "mimectl",
		Short: "Inspect and exercise a MIME type registry",
		Long: `mimectl loads the built-in MIME types, applies an optional YAML config
and answers questions about the resulting registry: which types exist,
how an Accept header resolves, what a file sniffs as and which transform
a type uses.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "types config file (yaml)")
	flags.StringP("output", "o", outputTable, "output format: table or a registered type key (json, yaml, toml, xml, ...)")
	flags.String("mode", debug.ReleaseMode, "run mode: debug, release or test")

	// Bind flags to viper
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("mode", flags.Lookup("mode"))

	rootCmd.AddCommand(
		newTypesCommand(a),
		newResolveCommand(a),
		newDetectCommand(a),
		newTransformCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cfgFile := a.v.GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	mode := a.v.GetString("mode")
	switch mode {
	case debug.DebugMode, debug.ReleaseMode, debug.TestMode:
		debug.SetMode(mode)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	a.reg = mimetypes.Default()
	if cfgFile != "" {
		var cfg mimetypes.Config
		if err := a.v.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding config: %w", err)
		}
		if err := a.reg.Apply(cfg); err != nil {
			return fmt.Errorf("applying config %s: %w", cfgFile, err)
		}
	}

	a.disp = render.NewDispatcher(a.reg)
	return nil
}

// write prints v in the selected output format. The table format prints
// v's String method; any other format names a registered type whose
// encoder serializes v.
func (a *app) write(w io.Writer, v fmt.Stringer) error {
	output := a.v.GetString("output")
	if output == "" || output == outputTable {
		_, err := fmt.Fprintln(w, v.String())
		return err
	}

	f, err := a.disp.Format(output, v)
	if err != nil {
		return fmt.Errorf("output %q: %w", output, err)
	}
	if f.Encode == nil {
		return fmt.Errorf("output %q: %w", output, render.ErrNoTransform)
	}
	var buf bytes.Buffer
	if err := f.Encode(&buf, v); err != nil {
		return err
	}
	// Terminate text output with a newline; binary output is left untouched.
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) && utf8.Valid(buf.Bytes()) {
		buf.WriteByte('\n')
	}
	_, err = buf.WriteTo(w)
	return err
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/neuronlabs/neuron-odata/config"
	"github.com/neuronlabs/neuron-odata/encoding/odata"
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
	"github.com/neuronlabs/neuron-odata/mapping"
)

// ErrInput is the error classification for the invalid input documents.
var ErrInput = errors.Wrap(errors.ErrInvalidArgument, "input document")

// NewRootCmd creates the 'odatafmt' command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odatafmt [file]",
		Short: "Formats JSON records as the OData JSON payload.",
		Long: `Reads the JSON document from the file or the standard input and writes it as the OData JSON payload.
An array is written as the record set, an object as a single record.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	fs := cmd.Flags()
	config.DefineFlags(fs)
	fs.StringP("config", "c", "", "path to the config file")
	fs.BoolP("gzip", "z", false, "compress the output with gzip")
	fs.StringP("entity-set", "s", "", "name of the entity set of the records")
	fs.StringP("type", "t", "", "type name of the records; the config namespace is used for unqualified names")
	fs.StringSliceP("key", "k", []string{"ID"}, "key property names of the records")
	fs.StringSliceP("expand", "e", nil, "members written as the expanded relationships")
	fs.String("select", "", "select clause of the payload, i.e. 'ID,Orders(Total)'")
	fs.Int64("count", -1, "total count of the record set; negative values are not written")
	fs.String("next-link", "", "next link of the record set")
	fs.String("delta-link", "", "delta link of the record set")
	fs.Bool("rename", false, "rename the members with the configured naming convention")
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fs := cmd.Flags()
	configPath, _ := fs.GetString("config")
	cfg, err := config.ReadWithFlags(configPath, fs)
	if err != nil {
		return err
	}
	if err = log.SetLevel(log.ParseLevel(cfg.LogLevel)); err != nil {
		return err
	}

	settings, err := odata.SettingsFromConfig(cfg.Writer)
	if err != nil {
		return err
	}
	opts, err := documentOptionsFromFlags(cmd, cfg.Mapping)
	if err != nil {
		return err
	}
	if opts.selectClause != "" {
		selected, err := odata.ParseSelect(opts.selectClause)
		if err != nil {
			return err
		}
		settings.Query = &odata.QueryContext{Select: selected}
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.WrapDetf(ErrInput, "opening input file: '%s' failed: %v", args[0], err)
		}
		defer f.Close()
		in = f
	}
	doc, err := readDocument(in)
	if err != nil {
		return err
	}

	useGzip, _ := fs.GetBool("gzip")
	var (
		out io.Writer = cmd.OutOrStdout()
		gz  *gzip.Writer
	)
	if useGzip {
		gz = gzip.NewWriter(out)
		// Close is idempotent. The deferred call finishes the stream when writing fails.
		defer gz.Close()
		out = gz
	}

	w := odata.NewWriter(out, settings)
	if err = writeDocument(w, doc, opts); err != nil {
		return err
	}
	if err = w.Flush(cmd.Context()); err != nil {
		return err
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return errors.WrapDetf(odata.ErrTransport, "closing gzip writer failed: %v", err)
		}
	}
	log.Debugf("Document written with the '%s' metadata level", settings.MetadataLevel)
	return nil
}

func documentOptionsFromFlags(cmd *cobra.Command, m *config.Mapping) (*documentOptions, error) {
	fs := cmd.Flags()
	opts := &documentOptions{expand: map[string]struct{}{}}
	var naming mapping.NamingConvention
	if err := naming.Parse(m.NamingConvention); err != nil {
		return nil, err
	}
	if rename, _ := fs.GetBool("rename"); rename {
		opts.namer = naming.Namer
	}

	typeName, _ := fs.GetString("type")
	if typeName != "" && !strings.Contains(typeName, ".") {
		typeName = m.Namespace + "." + typeName
	}
	opts.typeName = typeName

	entitySet, _ := fs.GetString("entity-set")
	if entitySet == "" && typeName != "" {
		entitySet = inflection.Plural(typeName[strings.LastIndexByte(typeName, '.')+1:])
	}
	keys, _ := fs.GetStringSlice("key")
	if entitySet != "" || typeName != "" {
		opts.info = &odata.SerializationInfo{
			NavigationSourceName:           entitySet,
			NavigationSourceKind:           mapping.EntitySetSource,
			NavigationSourceEntityTypeName: typeName,
			KeyNames:                       keys,
		}
	}

	expand, _ := fs.GetStringSlice("expand")
	for _, name := range expand {
		opts.expand[name] = struct{}{}
	}
	opts.selectClause, _ = fs.GetString("select")
	if count, _ := fs.GetInt64("count"); count >= 0 {
		opts.count = odata.Int64(count)
	}
	opts.nextLink, _ = fs.GetString("next-link")
	opts.deltaLink, _ = fs.GetString("delta-link")
	return opts, nil
}

package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dadrian/tagwire"
	"github.com/dadrian/tagwire/fieldhash"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file|-]",
	Short: "Print the structure of an encoded buffer",
	Long: `Print every value in the input as an indented tree of tags, lengths,
field hashes and primitive values. No type information is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var hashCmd = &cobra.Command{
	Use:   "hash NAME...",
	Short: "Print the field hash of each name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			h, err := fieldhash.Hash(name)
			if err != nil {
				return errors.Wrapf(err, "hash %q", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%016x  %s  %s\n", h, hex.EncodeToString(binary.LittleEndian.AppendUint64(nil, h)), name)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("hex", false, "input is hex text instead of raw bytes")
	inspectCmd.Flags().StringSlice("names", nil, "field or enum member names used to label hashes")
	inspectCmd.Flags().Int("max-elems", 16, "elements printed per packed array")
}

func runInspect(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(path)
	if err != nil {
		return err
	}
	if viper.GetBool("hex") {
		text := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, string(data))
		if data, err = hex.DecodeString(text); err != nil {
			return errors.Wrap(err, "decode hex input")
		}
	}
	log.Debug("input read", zap.String("path", path), zap.Int("bytes", len(data)))

	names := lo.Compact(lo.Map(viper.GetStringSlice("names"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	labels := make(map[uint64]string, len(names))
	for _, n := range names {
		h, err := fieldhash.Hash(n)
		if err != nil {
			return errors.Wrapf(err, "hash %q", n)
		}
		if prev, ok := labels[h]; ok {
			log.Warn("names share a hash", zap.String("a", prev), zap.String("b", n))
		}
		labels[h] = n
	}

	d := tagwire.Dumper{Names: labels, MaxElems: viper.GetInt("max-elems")}
	if err := d.Dump(cmd.OutOrStdout(), data); err != nil {
		log.Debug("dump stopped", zap.Error(err))
		return errors.Wrap(err, "inspect")
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return b, errors.Wrap(err, "read stdin")
	}
	b, err := os.ReadFile(path)
	return b, errors.Wrap(err, "read input")
}

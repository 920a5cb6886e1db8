// Package main provides the CLI entry point for xltable-go.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xltable-go/pkg/xltable"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
	"github.com/ukaji3/xltable-go/pkg/xltable/output"
)

var log = logrus.New()

// layout is the sheet placement shared by read and write.
type layout struct {
	sheet      string
	title      bool
	startRow   int
	schemaPath string
}

// apply fills the layout fields that were not given on the command line
// from the schema.
func (l *layout) apply(cmd *cobra.Command, schema *xltable.Schema) {
	if schema == nil {
		return
	}
	if schema.Sheet != "" && !cmd.Flags().Changed("sheet") {
		l.sheet = schema.Sheet
	}
	if !cmd.Flags().Changed("title") {
		l.title = schema.Title
	}
	if !cmd.Flags().Changed("start-row") {
		l.startRow = schema.StartRow
	}
}

func (l *layout) loadSchema() (*xltable.Schema, error) {
	if l.schemaPath == "" {
		return nil, nil
	}
	return xltable.LoadSchema(l.schemaPath)
}

func (l *layout) bind(cmd *cobra.Command, defaultSheet, verb string) {
	cmd.Flags().StringVar(&l.sheet, "sheet", defaultSheet, "Sheet name")
	cmd.Flags().BoolVar(&l.title, "title", false, "Use the first row as column names")
	cmd.Flags().IntVar(&l.startRow, "start-row", 0, fmt.Sprintf("Zero-based row to start %s at", verb))
	cmd.Flags().StringVar(&l.schemaPath, "schema", "", "YAML schema declaring sheet layout and column types")
}

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "xltable",
		Short: "Read and write spreadsheet tables",
		Long: `xltable-go reads spreadsheet sheets into JSON tables and writes
JSON tables back into .xlsx workbooks.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSheetsCmd(), newReadCmd(), newWriteCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openExisting(path string) (*xltable.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return xltable.Open(path, xltable.Options{Logger: log})
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [workbook]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			count, err := wb.SheetCount()
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				sheet, err := wb.SheetAt(i)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, sheet.Name())
			}
			return nil
		},
	}
}

func newReadCmd() *cobra.Command {
	var (
		l          layout
		index      int
		pretty     bool
		records    bool
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "read [workbook]",
		Short: "Read a sheet as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := l.loadSchema()
			if err != nil {
				return err
			}
			l.apply(cmd, schema)

			wb, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			var sheet engine.Sheet
			if l.sheet != "" {
				sheet, err = wb.Sheet(l.sheet)
			} else {
				sheet, err = wb.SheetAt(index)
			}
			if err != nil {
				return err
			}
			if sheet == nil {
				return fmt.Errorf("sheet not found in %s", args[0])
			}

			var tbl *models.Table
			if schema != nil {
				if tbl, err = schema.Table(); err == nil {
					err = wb.ReadSheetInto(sheet, tbl, l.title, l.startRow)
				}
			} else {
				tbl, err = wb.ReadSheetFrom(sheet, l.title, l.startRow)
			}
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}

			var jsonData []byte
			if records {
				jsonData, err = output.RecordsToJSON(tbl, pretty)
			} else {
				jsonData, err = output.ToJSON(tbl, pretty)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
	l.bind(cmd, "", "reading")
	cmd.Flags().IntVar(&index, "index", 0, "Zero-based sheet index, used when --sheet is empty")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&records, "records", false, "Output rows as objects keyed by column name")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func newWriteCmd() *cobra.Command {
	var (
		l            layout
		inputPath    string
		templatePath string
	)
	cmd := &cobra.Command{
		Use:   "write [workbook]",
		Short: "Write JSON rows into a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := l.loadSchema()
			if err != nil {
				return err
			}
			l.apply(cmd, schema)

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}
			tbl, err := decodeRows(data, schema)
			if err != nil {
				return fmt.Errorf("decode %s: %w", inputPath, err)
			}

			wb, err := xltable.Open(args[0], xltable.Options{TemplatePath: templatePath, Logger: log})
			if err != nil {
				return err
			}
			defer wb.Close()

			sheet, err := wb.GetOrCreateSheet(l.sheet)
			if err != nil {
				return err
			}
			next, err := wb.WriteSheetAt(sheet, tbl, l.title, l.startRow)
			if err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
			if err := wb.Flush(); err != nil {
				return fmt.Errorf("flush failed: %w", err)
			}

			log.WithFields(logrus.Fields{
				"sheet": l.sheet,
				"rows":  len(tbl.Rows),
				"next":  next,
			}).Info("wrote table")
			return nil
		},
	}
	l.bind(cmd, "Sheet1", "writing")
	cmd.Flags().StringVar(&inputPath, "input", "", "JSON file with [[...]] or [{...}] rows")
	cmd.Flags().StringVar(&templatePath, "template", "", "Workbook used as the creation source")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

package services

import (
	"fmt"
	"unicode/utf8"

	"insiderdash/internal/config"
	"insiderdash/internal/dataprocessing"
	"insiderdash/pkg/contracts/domain"
)

// PipelineOptions translates the pipeline section of the configuration into
// loader and normalizer options.
func PipelineOptions(cfg config.PipelineConfig) (dataprocessing.LoadOptions, dataprocessing.NormalizeOptions, error) {
	format, err := dataprocessing.ParseNumberFormat(cfg.NumberFormat)
	if err != nil {
		return dataprocessing.LoadOptions{}, dataprocessing.NormalizeOptions{}, err
	}
	conv := dataprocessing.Convention{Format: format, CurrencySymbol: cfg.CurrencySymbol}

	load := dataprocessing.DefaultLoadOptions()
	load.Convention = conv
	if cfg.Encoding != "" {
		load.Encoding = cfg.Encoding
	}
	if cfg.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(cfg.Delimiter)
		if size != len(cfg.Delimiter) {
			return load, dataprocessing.NormalizeOptions{}, fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter)
		}
		load.Delimiter = r
	}

	norm := dataprocessing.DefaultNormalizeOptions()
	norm.Convention = conv
	norm.DropColumns = cfg.DropColumns
	if cfg.VolumeColumn != "" {
		norm.VolumeColumn = cfg.VolumeColumn
	}
	if cfg.SortKey != "" {
		norm.SortKey = dataprocessing.SortKey(cfg.SortKey)
	}
	if cfg.DedupKey != "" {
		norm.DedupKey = dataprocessing.DedupKey(cfg.DedupKey)
	}

	var overrides []dataprocessing.FieldSpec
	for name, fc := range cfg.Fields {
		field, ok := domain.ParseField(name)
		if !ok {
			return load, norm, fmt.Errorf("unknown field mapping %q", name)
		}
		overrides = append(overrides, dataprocessing.FieldSpec{
			Field:    field,
			Headers:  fc.Headers,
			Contains: fc.Contains,
		})
	}
	for _, name := range cfg.RequiredFields {
		field, ok := domain.ParseField(name)
		if !ok {
			return load, norm, fmt.Errorf("unknown required field %q", name)
		}
		overrides = append(overrides, dataprocessing.FieldSpec{Field: field, Required: true})
	}
	norm.Fields = dataprocessing.MergeFieldSpecs(dataprocessing.DefaultFieldSpecs(), overrides...)

	return load, norm, nil
}

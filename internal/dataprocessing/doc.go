// Package dataprocessing implements the disclosure pipeline: loading a
// delimited export into a Table, normalizing it for display and filtering
// the result.
//
// # Architecture
//
// The package is organized into three stages:
//
// 1. Loader: decodes Latin-1 (or UTF-8) delimited text into typed cells
// 2. Normalizer: resolves the schema, cleans currency, prunes and renames
// columns, parses dates, deduplicates, sorts and formats
// 3. Filter: applies a domain.FilterSelection without touching its input
//
// # Usage
//
//	raw, err := dataprocessing.LoadFile("movimentacoes.csv", dataprocessing.DefaultLoadOptions())
//	if err != nil {
//	    return err
//	}
//	ds, err := dataprocessing.NewNormalizer(dataprocessing.DefaultNormalizeOptions(), logger).Normalize(ctx, raw)
//	if err != nil {
//	    return err
//	}
//	view := ds.Filter(domain.FilterSelection{Companies: []string{"Petrobras"}})
//
// # Data Flow
//
//	CSV → Loader → Table → Normalizer → Dataset (cached) → Filter → Table view
//
// # Error Handling
//
// Load failures and mandatory schema gaps are returned as *errors.AppError
// of type LOAD and SCHEMA. Cells that cannot be parsed become null and are
// counted in the NormalizeReport instead of failing the load.
//
// # Thread Safety
//
// Tables are immutable once built and may be shared between goroutines.
package dataprocessing

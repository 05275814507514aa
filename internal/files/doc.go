// Package files finds disclosure exports on disk.
//
// The regulator publishes one export per year (vlmo_cia_aberta_2023.csv,
// vlmo_cia_aberta_2024.csv, ...). When the configured data path is a
// directory, Discovery.Latest picks the most recently modified CSV in it, so
// dropping a new export next to the old ones and reloading is enough to
// switch the dashboard over.
//
//	discovery := files.NewDiscovery("")
//	latest, err := discovery.Latest("data", "vlmo_*.csv")
package files

package config

import (
	"time"

	"insiderdash/pkg/contracts"
)

// Application constants
const (
	AppName    = "insiderdash"
	AppTitle   = "Dashboard STK"
	AppVersion = contracts.Version

	DefaultPort      = 8080
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultDataFile       = "data/movimentacoes.csv"
	DefaultExportFilename = "tabela_diretoria.xlsx"
	DefaultCSVFilename    = "tabela_diretoria.csv"
	DefaultSheetName      = "Dados"

	// Header given to the detected volume column after normalization
	CanonicalVolumeColumn = "Volume Financeiro (R$)"

	DefaultRequestTimeout = 30 * time.Second
)

// Pipeline option values
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"

	NumberFormatPlain     = "plain"
	NumberFormatLocalized = "localized"

	SortByVolume = "volume"
	SortByDate   = "date"

	DedupByVolume            = "volume"
	DedupByVolumeCompanyDate = "volume_company_date"
)

// DefaultDropColumns are administrative columns removed from the display table
var DefaultDropColumns = []string{
	"Nome_Companhia",
	"Intermediario",
	"Versao",
	"CNPJ_Companhia",
	"Tipo_Empresa",
	"Descricao_Movimentacao",
	"Tipo_Operacao",
}

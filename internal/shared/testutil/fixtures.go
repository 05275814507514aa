package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// DisclosureHeader is the header row of the regulator's disclosure export
const DisclosureHeader = "Data_Referencia;Empresa;Nome_Companhia;CNPJ_Companhia;Versao;Tipo_Cargo;Tipo_Movimentacao;Intermediario;Quantidade;Preco_Unitario;Volume"

// DisclosureCSV is a small export with one duplicate volume, a localized
// company name and an unparseable volume
const DisclosureCSV = DisclosureHeader + `
2024-01-10;Petrobras;PETROLEO BRASILEIRO S.A.;33.000.167/0001-01;1;Diretor;Compra à vista;XP;1500;25.10;R$ 37,650.00
2024-01-11;Vale;VALE S.A.;33.592.510/0001-54;2;Conselho de Administração;Venda à vista;BTG;200;62.5;R$ 12,500.00
2024-01-11;Petrobras;PETROLEO BRASILEIRO S.A.;33.000.167/0001-01;1;Diretor;Compra à vista;XP;1500;25.10;R$ 37,650.00
2024-01-12;Itaú Unibanco;ITAU UNIBANCO HOLDING S.A.;60.872.504/0001-23;1;Diretor;Compra à vista;Itaú;10000;30.00;R$ 300,000.00
2024-01-15;Vale;VALE S.A.;33.592.510/0001-54;2;Diretor;Venda à vista;BTG;50;61.00;n/d
`

// ScenarioCSV is the minimal X/X/Y case: two identical X volumes and a
// larger Y volume
const ScenarioCSV = `Empresa;Data_Referencia;Tipo_Movimentacao;Tipo_Cargo;Volume
X;2024-01-10;Compra;Diretor;R$ 1,000.00
X;2024-01-11;Compra;Diretor;R$ 1,000.00
Y;2024-01-12;Venda;Conselho;R$ 2,000.00
`

// EncodeLatin1 encodes s as ISO-8859-1, failing the test on characters
// outside the charset
func EncodeLatin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode latin1: %v", err)
	}
	return []byte(out)
}

// WriteLatin1File writes content Latin-1 encoded under dir and returns the path
func WriteLatin1File(t *testing.T, dir, name, content string) string {
	t.Helper()
	return WriteFile(t, dir, name, EncodeLatin1(t, content))
}

// WriteFile writes raw bytes under dir and returns the path
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Latin1Reader returns a reader over s encoded as ISO-8859-1
func Latin1Reader(t *testing.T, s string) *strings.Reader {
	t.Helper()
	return strings.NewReader(string(EncodeLatin1(t, s)))
}

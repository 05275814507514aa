package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insiderdash/internal/shared/testutil"
	"insiderdash/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func disclosureDataset(t *testing.T) *Dataset {
	t.Helper()
	return normalize(t, testutil.DisclosureCSV, DefaultNormalizeOptions())
}

func TestApplyEmptySelectionIsIdentity(t *testing.T) {
	ds := disclosureDataset(t)

	out := ds.Filter(domain.FilterSelection{})
	assert.Equal(t, ds.Table.Strings(), out.Strings())

	// a single bound leaves the date axis inactive
	out = ds.Filter(domain.FilterSelection{DateFrom: day(2024, 1, 11)})
	assert.Equal(t, ds.Table.Len(), out.Len())
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	ds := disclosureDataset(t)
	columns := ds.Table.Columns()
	before := ds.Table.Strings()

	selections := []domain.FilterSelection{
		{Companies: []string{"Vale"}},
		{MovementTypes: []string{"Venda"}, Roles: []string{"Diretor"}},
		{DateFrom: day(2024, 1, 11), DateTo: day(2024, 1, 12)},
		{Companies: []string{"Ambev"}},
	}
	for _, sel := range selections {
		out := Apply(ds.Table, ds.Schema, sel)
		require.NotSame(t, ds.Table, out)
		assert.LessOrEqual(t, out.Len(), len(before))
	}
	_ = Options(ds.Table, ds.Schema)

	assert.Equal(t, columns, ds.Table.Columns())
	assert.Equal(t, before, ds.Table.Strings())
}

func TestApplyAxes(t *testing.T) {
	ds := disclosureDataset(t)

	tests := []struct {
		name string
		sel  domain.FilterSelection
		want []string
	}{
		{
			name: "company allow-list",
			sel:  domain.FilterSelection{Companies: []string{"Vale"}},
			want: []string{"Vale", "Vale"},
		},
		{
			name: "unknown company",
			sel:  domain.FilterSelection{Companies: []string{"Ambev"}},
			want: nil,
		},
		{
			name: "inclusive date range",
			sel:  domain.FilterSelection{DateFrom: day(2024, 1, 11), DateTo: day(2024, 1, 12)},
			want: []string{"Itaú Unibanco", "Vale"},
		},
		{
			name: "date range compares calendar days",
			sel: domain.FilterSelection{
				DateFrom: func() *time.Time { t := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC); return &t }(),
				DateTo:   day(2024, 1, 15),
			},
			want: []string{"Vale"},
		},
		{
			name: "movement type",
			sel:  domain.FilterSelection{MovementTypes: []string{"Venda à vista"}},
			want: []string{"Vale", "Vale"},
		},
		{
			name: "role",
			sel:  domain.FilterSelection{Roles: []string{"Conselho de Administração"}},
			want: []string{"Vale"},
		},
		{
			name: "conjunction",
			sel: domain.FilterSelection{
				Companies: []string{"Vale", "Petrobras"},
				Roles:     []string{"Diretor"},
				DateFrom:  day(2024, 1, 1),
				DateTo:    day(2024, 1, 31),
			},
			want: []string{"Petrobras", "Vale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ds.Filter(tt.sel)
			assert.Equal(t, tt.want, columnStrings(out, "Empresa"))
		})
	}
}

func TestApplyConjunctionOrderIndependent(t *testing.T) {
	ds := disclosureDataset(t)
	companies := domain.FilterSelection{Companies: []string{"Vale", "Petrobras"}}
	roles := domain.FilterSelection{Roles: []string{"Diretor"}}
	both := domain.FilterSelection{Companies: companies.Companies, Roles: roles.Roles}

	a := Apply(Apply(ds.Table, ds.Schema, companies), ds.Schema, roles)
	b := Apply(Apply(ds.Table, ds.Schema, roles), ds.Schema, companies)
	c := ds.Filter(both)

	assert.Equal(t, a.Strings(), b.Strings())
	assert.Equal(t, a.Strings(), c.Strings())
}

func TestApplyNullDatesNeverMatchRange(t *testing.T) {
	ds := normalize(t, "Empresa;Data_Referencia;Volume\nA;2024-01-01;1\nB;;2\n", DefaultNormalizeOptions())

	out := ds.Filter(domain.FilterSelection{DateFrom: day(2000, 1, 1), DateTo: day(2100, 1, 1)})
	assert.Equal(t, []string{"A"}, columnStrings(out, "Empresa"))
}

func TestOptions(t *testing.T) {
	ds := disclosureDataset(t)
	opts := ds.Options()

	assert.Equal(t, []string{"Itaú Unibanco", "Petrobras", "Vale"}, opts.Companies)
	assert.Equal(t, []string{"Compra à vista", "Venda à vista"}, opts.MovementTypes)
	assert.Equal(t, []string{"Conselho de Administração", "Diretor"}, opts.Roles)
	require.NotNil(t, opts.MinDate)
	require.NotNil(t, opts.MaxDate)
	assert.Equal(t, "2024-01-10", opts.MinDate.Format(DateLayout))
	assert.Equal(t, "2024-01-15", opts.MaxDate.Format(DateLayout))
}

func TestOptionsMissingColumns(t *testing.T) {
	ds := normalize(t, "Empresa;Volume\nB;1\nA;2\n", DefaultNormalizeOptions())
	opts := ds.Options()

	assert.Equal(t, []string{"A", "B"}, opts.Companies)
	assert.Empty(t, opts.Roles)
	assert.NotNil(t, opts.Roles)
	assert.Nil(t, opts.MinDate)
}

func TestView(t *testing.T) {
	ds := normalize(t, testutil.ScenarioCSV, DefaultNormalizeOptions())
	view := View(ds.Table)

	assert.Equal(t, 2, view.Count)
	assert.Equal(t, ds.Table.Columns(), view.Columns)
	assert.Equal(t, "Y", view.Rows[0][0])
}

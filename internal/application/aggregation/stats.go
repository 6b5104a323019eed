package aggregation

import (
	"github.com/shopspring/decimal"

	"estatebook-backend/internal/domain"
	"estatebook-backend/internal/pkg/numeric"
)

// Bucket is an income/expense pair for one linkage category.
type Bucket struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// SubTotals groups the ledger by linkage category.
type SubTotals struct {
	General  Bucket `json:"general"`
	Land     Bucket `json:"land"`
	Building Bucket `json:"building"`
}

// Stats is the financial rollup of one project's ledger.
type Stats struct {
	TotalIncome  float64   `json:"totalIncome"`
	TotalExpense float64   `json:"totalExpense"`
	NetProfit    float64   `json:"netProfit"`
	ROI          float64   `json:"roi"`
	SubTotals    SubTotals `json:"subTotals"`
}

// ComputeStats reduces a transaction list to totals, net profit, ROI and
// per-linkage subtotals. Pure and order-independent; non-numeric amounts count
// as zero, and an unrecognized linkage falls into the general bucket.
func ComputeStats(txs []domain.Transaction) Stats {
	type sums struct{ income, expense decimal.Decimal }
	var total sums
	byLink := map[string]*sums{
		domain.LinkGeneral:  {},
		domain.LinkLand:     {},
		domain.LinkBuilding: {},
	}

	for _, t := range txs {
		amount := t.Amount.Decimal()
		bucket, ok := byLink[t.LinkedType]
		if !ok {
			bucket = byLink[domain.LinkGeneral]
		}
		if t.Type == domain.TxIncome {
			total.income = total.income.Add(amount)
			bucket.income = bucket.income.Add(amount)
		} else {
			total.expense = total.expense.Add(amount)
			bucket.expense = bucket.expense.Add(amount)
		}
	}

	net := total.income.Sub(total.expense)
	roi := decimal.Zero
	if !total.expense.IsZero() {
		roi = net.Div(total.expense).Mul(decimal.NewFromInt(100)).Round(2)
	}

	asBucket := func(s *sums) Bucket {
		return Bucket{Income: s.income.InexactFloat64(), Expense: s.expense.InexactFloat64()}
	}
	return Stats{
		TotalIncome:  total.income.InexactFloat64(),
		TotalExpense: total.expense.InexactFloat64(),
		NetProfit:    net.InexactFloat64(),
		ROI:          roi.InexactFloat64(),
		SubTotals: SubTotals{
			General:  asBucket(byLink[domain.LinkGeneral]),
			Land:     asBucket(byLink[domain.LinkLand]),
			Building: asBucket(byLink[domain.LinkBuilding]),
		},
	}
}

// ProjectBuyer, ProjectLand and ProjectBuilding are flattened list rows for the
// cross-project report: the entity unchanged plus the owning project's name.
type ProjectBuyer struct {
	domain.Buyer
	ProjectName string `json:"projectName"`
}

type ProjectLand struct {
	domain.LandParcel
	ProjectName string `json:"projectName"`
}

type ProjectBuilding struct {
	domain.Building
	ProjectName string `json:"projectName"`
}

// Summary aggregates a selected set of projects: ledger totals across all of
// them, land and building asset totals, and flattened entity lists for tabular
// display.
type Summary struct {
	ProjectCount       int               `json:"projectCount"`
	TotalIncome        float64           `json:"totalIncome"`
	TotalExpense       float64           `json:"totalExpense"`
	NetProfit          float64           `json:"netProfit"`
	ROI                float64           `json:"roi"`
	TotalLandAreaM2    string            `json:"totalLandAreaM2"`
	TotalLandAreaPing  string            `json:"totalLandAreaPing"`
	TotalLandPrice     float64           `json:"totalLandPrice"`
	TotalBuildingPrice float64           `json:"totalBuildingPrice"`
	AllBuyers          []ProjectBuyer    `json:"allBuyers"`
	AllLands           []ProjectLand     `json:"allLands"`
	AllBuildings       []ProjectBuilding `json:"allBuildings"`
}

// Summarize computes the multi-project rollup over the projects whose ids are
// selected. Parcel areas are taken from the stored per-parcel derived values,
// not recomputed from raw items. Commutative: selection order never changes
// the totals.
func Summarize(projects []domain.Project, selectedIDs []string) Summary {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	income := decimal.Zero
	expense := decimal.Zero
	landM2 := decimal.Zero
	landPrice := decimal.Zero
	buildingPrice := decimal.Zero
	out := Summary{
		AllBuyers:    []ProjectBuyer{},
		AllLands:     []ProjectLand{},
		AllBuildings: []ProjectBuilding{},
	}

	for _, p := range projects {
		if !selected[p.ID.String()] {
			continue
		}
		out.ProjectCount++

		for _, t := range p.Transactions {
			amount := t.Amount.Decimal()
			if t.Type == domain.TxIncome {
				income = income.Add(amount)
			} else {
				expense = expense.Add(amount)
			}
		}
		for _, b := range p.Buyers {
			out.AllBuyers = append(out.AllBuyers, ProjectBuyer{Buyer: b, ProjectName: p.Name})
		}
		for _, l := range p.Lands {
			landM2 = landM2.Add(numeric.Value(l.HoldingAreaM2).Decimal())
			landPrice = landPrice.Add(decimal.NewFromFloat(l.TotalPrice))
			out.AllLands = append(out.AllLands, ProjectLand{LandParcel: l, ProjectName: p.Name})
		}
		for _, b := range p.Buildings {
			buildingPrice = buildingPrice.Add(b.TotalPrice.Decimal())
			out.AllBuildings = append(out.AllBuildings, ProjectBuilding{Building: b, ProjectName: p.Name})
		}
	}

	net := income.Sub(expense)
	roi := decimal.Zero
	if !expense.IsZero() {
		roi = net.Div(expense).Mul(decimal.NewFromInt(100)).Round(2)
	}

	out.TotalIncome = income.InexactFloat64()
	out.TotalExpense = expense.InexactFloat64()
	out.NetProfit = net.InexactFloat64()
	out.ROI = roi.InexactFloat64()
	out.TotalLandAreaM2 = numeric.FormatArea(landM2)
	out.TotalLandAreaPing = numeric.FormatArea(ToPing(landM2))
	out.TotalLandPrice = landPrice.InexactFloat64()
	out.TotalBuildingPrice = buildingPrice.InexactFloat64()
	return out
}

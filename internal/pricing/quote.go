package pricing

import (
	"math"
	"slices"

	"studio-dashboard/internal/models"
)

// QuoteInput is everything the project form knows about the money side.
type QuoteInput struct {
	PackagePrice int64
	Discount     int64
	Surcharge    models.Surcharge
	Team         models.ProjectTeam
	PartnerCosts int64
}

// Quote is a display-only estimate; the backend owns the authoritative figures.
type Quote struct {
	FinalPrice       int64
	Deposit          int64
	Remaining        int64
	SurchargeRevenue int64
	TotalRevenue     int64
	LaborCosts       int64
	PartnerCosts     int64
	TotalCosts       int64
	Profit           int64
	ProfitMargin     float64
	Bonuses          Bonuses
}

// Bonuses are per-member amounts for each team role.
type Bonuses struct {
	MainPhoto int64
	Assist    int64
	Makeup    int64
	Retouch   int64
}

func (r Rates) FinalPrice(price, discount int64) int64 {
	return price - discount
}

// Split divides the final price into deposit and remaining, each rounded to
// the nearest dong.
func (r Rates) Split(final int64) (deposit, remaining int64) {
	f := float64(final)
	deposit = int64(math.Round(f * r.DepositRatio))
	remaining = int64(math.Round(f * (1 - r.DepositRatio)))
	return deposit, remaining
}

func (r Rates) SurchargeRevenue(s models.Surcharge) int64 {
	return int64(s.ExtraHours)*r.ExtraHour +
		int64(s.ExtraPeople)*r.ExtraPerson +
		int64(s.ExtraMakeup)*r.ExtraMakeup
}

func (r Rates) Bonuses(s models.Surcharge) Bonuses {
	hours, people := int64(s.ExtraHours), int64(s.ExtraPeople)
	return Bonuses{
		MainPhoto: hours*r.PhotoBonus.PerHour + people*r.PhotoBonus.PerPerson,
		Assist:    hours*r.AssistBonus.PerHour + people*r.AssistBonus.PerPerson,
		Makeup:    hours*r.MakeupBonus.PerHour + people*r.MakeupBonus.PerPerson,
		Retouch:   int64(s.ExtraPhotos) * r.RetouchBonusPerPhoto,
	}
}

// ApplyBonuses returns a copy of the team with every member's bonus set from
// the surcharge. Members of one role all receive the same amount. The main
// photographer slot is only touched when someone is assigned.
func (r Rates) ApplyBonuses(team models.ProjectTeam, s models.Surcharge) models.ProjectTeam {
	b := r.Bonuses(s)
	out := cloneTeam(team)
	if out.MainPhotographer != nil && out.MainPhotographer.Employee != "" {
		out.MainPhotographer.Bonus = b.MainPhoto
	}
	setBonus(out.AssistPhotographers, b.Assist)
	setBonus(out.MakeupArtists, b.Makeup)
	setBonus(out.RetouchArtists, b.Retouch)
	return out
}

func LaborCosts(team models.ProjectTeam) int64 {
	var total int64
	for _, m := range team.Members() {
		total += m.Salary + m.Bonus
	}
	return total
}

// Quote recomputes the whole financial summary. Bonuses are derived from the
// surcharge before labor is summed.
func (r Rates) Quote(in QuoteInput) Quote {
	q := Quote{
		FinalPrice:       r.FinalPrice(in.PackagePrice, in.Discount),
		SurchargeRevenue: r.SurchargeRevenue(in.Surcharge),
		PartnerCosts:     in.PartnerCosts,
		Bonuses:          r.Bonuses(in.Surcharge),
	}
	q.Deposit, q.Remaining = r.Split(q.FinalPrice)
	q.TotalRevenue = q.FinalPrice + q.SurchargeRevenue
	q.LaborCosts = LaborCosts(r.ApplyBonuses(in.Team, in.Surcharge))
	q.TotalCosts = q.LaborCosts + q.PartnerCosts
	q.Profit = q.TotalRevenue - q.TotalCosts
	q.ProfitMargin = Margin(q.Profit, q.TotalRevenue)
	return q
}

// Margin is profit as a percentage of revenue; zero revenue yields 0.
func Margin(profit, revenue int64) float64 {
	if revenue == 0 {
		return 0
	}
	return float64(profit) / float64(revenue) * 100
}

func setBonus(members []models.TeamMember, bonus int64) {
	for i := range members {
		members[i].Bonus = bonus
	}
}

func cloneTeam(t models.ProjectTeam) models.ProjectTeam {
	out := models.ProjectTeam{
		AssistPhotographers: slices.Clone(t.AssistPhotographers),
		MakeupArtists:       slices.Clone(t.MakeupArtists),
		RetouchArtists:      slices.Clone(t.RetouchArtists),
	}
	if t.MainPhotographer != nil {
		m := *t.MainPhotographer
		out.MainPhotographer = &m
	}
	return out
}

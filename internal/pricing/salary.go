package pricing

import "studio-dashboard/internal/models"

// PackageSalaries are the per-role base salaries a package suggests, in VND.
type PackageSalaries struct {
	MainPhoto int64
	Assist    int64
	Makeup    int64
	Retouch   int64
}

func (r Rates) PackageSalaries(d models.PackageDetails) PackageSalaries {
	conv := func(t *models.Thousands) int64 {
		if t == nil {
			return 0
		}
		return t.VND(r.PackageSalaryUnit)
	}
	return PackageSalaries{
		MainPhoto: conv(d.Photo),
		Assist:    conv(d.Assistant),
		Makeup:    conv(d.Makeup),
		Retouch:   conv(d.Retouch),
	}
}

// ApplyPackageSalaries fills every member's salary from the package. Bonuses
// are left untouched.
func ApplyPackageSalaries(team models.ProjectTeam, s PackageSalaries) models.ProjectTeam {
	out := cloneTeam(team)
	if out.MainPhotographer != nil && out.MainPhotographer.Employee != "" {
		out.MainPhotographer.Salary = s.MainPhoto
	}
	setSalary(out.AssistPhotographers, s.Assist)
	setSalary(out.MakeupArtists, s.Makeup)
	setSalary(out.RetouchArtists, s.Retouch)
	return out
}

func setSalary(members []models.TeamMember, salary int64) {
	for i := range members {
		members[i].Salary = salary
	}
}

// SalaryTotal is base + project pay + bonus - deduction.
func SalaryTotal(base int64, projects []models.SalaryProjectLine, bonus, deduction int64) int64 {
	total := base + bonus - deduction
	for _, p := range projects {
		total += p.Salary
	}
	return total
}

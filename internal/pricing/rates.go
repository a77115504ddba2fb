package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// BonusRate is a per-unit bonus paid to every member of one team role.
type BonusRate struct {
	PerHour   int64 `mapstructure:"per_hour"`
	PerPerson int64 `mapstructure:"per_person"`
}

// Rates holds the studio's pricing constants. All amounts are VND.
type Rates struct {
	DepositRatio float64 `mapstructure:"deposit_ratio"`

	// surcharge revenue billed to the customer
	ExtraHour   int64 `mapstructure:"extra_hour"`
	ExtraPerson int64 `mapstructure:"extra_person"`
	ExtraMakeup int64 `mapstructure:"extra_makeup"`

	PhotoBonus           BonusRate `mapstructure:"photo_bonus"`
	AssistBonus          BonusRate `mapstructure:"assist_bonus"`
	MakeupBonus          BonusRate `mapstructure:"makeup_bonus"`
	RetouchBonusPerPhoto int64     `mapstructure:"retouch_bonus_per_photo"`

	// package details store salaries in thousands of VND
	PackageSalaryUnit int64 `mapstructure:"package_salary_unit"`
}

func DefaultRates() Rates {
	return Rates{
		DepositRatio:         0.6,
		ExtraHour:            1_000_000,
		ExtraPerson:          600_000,
		ExtraMakeup:          800_000,
		PhotoBonus:           BonusRate{PerHour: 300_000, PerPerson: 100_000},
		AssistBonus:          BonusRate{PerHour: 200_000, PerPerson: 50_000},
		MakeupBonus:          BonusRate{PerHour: 200_000, PerPerson: 60_000},
		RetouchBonusPerPhoto: 15_000,
		PackageSalaryUnit:    1_000,
	}
}

// LoadRates reads rates from an optional YAML/JSON/TOML file and PRICING_* env
// overrides (PRICING_DEPOSIT_RATIO, PRICING_PHOTO_BONUS_PER_HOUR, ...).
// Missing keys keep their defaults.
func LoadRates(path string) (Rates, error) {
	v := viper.New()
	setDefaults(v, DefaultRates())

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Rates{}, fmt.Errorf("read pricing file %s: %w", path, err)
		}
	}

	var r Rates
	if err := v.Unmarshal(&r); err != nil {
		return Rates{}, fmt.Errorf("decode pricing rates: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rates{}, err
	}
	return r, nil
}

func (r Rates) Validate() error {
	if r.DepositRatio < 0 || r.DepositRatio > 1 {
		return errors.New("pricing: deposit_ratio must be between 0 and 1")
	}
	for name, v := range map[string]int64{
		"extra_hour":              r.ExtraHour,
		"extra_person":            r.ExtraPerson,
		"extra_makeup":            r.ExtraMakeup,
		"retouch_bonus_per_photo": r.RetouchBonusPerPhoto,
		"package_salary_unit":     r.PackageSalaryUnit,
	} {
		if v < 0 {
			return fmt.Errorf("pricing: %s must not be negative", name)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, d Rates) {
	v.SetDefault("deposit_ratio", d.DepositRatio)
	v.SetDefault("extra_hour", d.ExtraHour)
	v.SetDefault("extra_person", d.ExtraPerson)
	v.SetDefault("extra_makeup", d.ExtraMakeup)
	v.SetDefault("photo_bonus.per_hour", d.PhotoBonus.PerHour)
	v.SetDefault("photo_bonus.per_person", d.PhotoBonus.PerPerson)
	v.SetDefault("assist_bonus.per_hour", d.AssistBonus.PerHour)
	v.SetDefault("assist_bonus.per_person", d.AssistBonus.PerPerson)
	v.SetDefault("makeup_bonus.per_hour", d.MakeupBonus.PerHour)
	v.SetDefault("makeup_bonus.per_person", d.MakeupBonus.PerPerson)
	v.SetDefault("retouch_bonus_per_photo", d.RetouchBonusPerPhoto)
	v.SetDefault("package_salary_unit", d.PackageSalaryUnit)
}

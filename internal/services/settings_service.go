package services

import (
	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetSettings returns the settings singleton, creating it with defaults on
// first read. The defaults go in via Attrs so they never become part of the
// lookup; otherwise a changed opening balance would miss the stored row.
func GetSettings(db *gorm.DB) (*models.Settings, error) {
	var settings models.Settings
	err := db.Where(models.Settings{SettingsID: models.DefaultSettingsID}).
		Attrs(models.Settings{FundOpening: 120000}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SettingsInput is the PUT /api/settings payload. Absent blocks leave the
// stored values untouched.
type SettingsInput struct {
	School      *models.SchoolInfo `json:"school"`
	Enrollment  *models.Enrollment `json:"enrollment"`
	Bank        *models.BankInfo   `json:"bank"`
	RiceStock   *float64           `json:"riceStock"`
	FundOpening *float64           `json:"fundOpening"`
}

// UpdateSettings upserts the singleton keyed on settingsId='default'.
func UpdateSettings(db *gorm.DB, input SettingsInput) (*models.Settings, error) {
	settings, err := GetSettings(db)
	if err != nil {
		return nil, err
	}

	if input.School != nil {
		settings.School = datatypes.NewJSONType(*input.School)
	}
	if input.Enrollment != nil {
		settings.Enrollment = datatypes.NewJSONType(*input.Enrollment)
	}
	if input.Bank != nil {
		settings.Bank = datatypes.NewJSONType(*input.Bank)
	}
	if input.RiceStock != nil {
		settings.RiceStock = *input.RiceStock
	}
	if input.FundOpening != nil {
		settings.FundOpening = *input.FundOpening
	}

	if err := db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

package models

import "time"

// CaseStatus is the warrant status of a legajo.
type CaseStatus string

const (
	CaseStatusActiveWarrant CaseStatus = "CAPTURA_VIGENTE"
	CaseStatusLifted        CaseStatus = "CAPTURA_SIN_EFECTO"
	CaseStatusDetained      CaseStatus = "DETENIDO"
)

func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusActiveWarrant, CaseStatusLifted, CaseStatusDetained:
		return true
	}
	return false
}

// Force is the security force assigned to execute the warrant.
type Force string

const (
	ForcePFA Force = "PFA" // Policía Federal Argentina
	ForceGNA Force = "GNA" // Gendarmería Nacional
	ForcePNA Force = "PNA" // Prefectura Naval
	ForcePSA Force = "PSA" // Policía de Seguridad Aeroportuaria
	ForceSPF Force = "SPF" // Servicio Penitenciario Federal
)

func (f Force) IsValid() bool {
	switch f {
	case ForcePFA, ForceGNA, ForcePNA, ForcePSA, ForceSPF:
		return true
	}
	return false
}

// Reward enums. When Reward is "SI" and the amount is confirmed, RewardAmount
// must be present; when the amount status is "DESCONOCIDO" it stays null.
type (
	Reward             string
	RewardAmountStatus string
)

const (
	RewardYes Reward = "SI"
	RewardNo  Reward = "NO"

	RewardAmountConfirmed RewardAmountStatus = "CONFIRMADO"
	RewardAmountUnknown   RewardAmountStatus = "DESCONOCIDO"
)

func (r Reward) IsValid() bool {
	return r == RewardYes || r == RewardNo
}

func (s RewardAmountStatus) IsValid() bool {
	return s == RewardAmountConfirmed || s == RewardAmountUnknown
}

// ExtraField is a free-form label/value pair shown on the case detail view.
type ExtraField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Case represents a judicial/investigative file (legajo) in the database.
type Case struct {
	ID               uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	ExpedienteNumber string             `gorm:"not null;index" json:"expediente_number"`
	Caratula         string             `gorm:"not null" json:"caratula"`
	Court            string             `json:"court"`
	ProsecutorOffice string             `json:"prosecutor_office"`
	Jurisdiction     string             `gorm:"not null;default:FEDERAL" json:"jurisdiction"`
	Offense          string             `json:"offense"`
	Status           CaseStatus         `gorm:"not null;default:CAPTURA_VIGENTE;index" json:"status"`
	AssignedForce    Force              `gorm:"index" json:"assigned_force"`
	Reward           Reward             `gorm:"not null;default:NO" json:"reward"`
	RewardAmountStat RewardAmountStatus `gorm:"column:reward_amount_status;not null;default:DESCONOCIDO" json:"reward_amount_status"`
	RewardAmount     *float64           `json:"reward_amount,omitempty"`
	ExtraFields      []ExtraField       `gorm:"serializer:json" json:"extra_fields"`
	Priority         int                `gorm:"not null;default:0;index" json:"priority"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`

	// Relationships. A case owns zero-or-one linked person via the
	// person_cases join and zero-or-many media rows.
	Persons []Person    `gorm:"many2many:person_cases;" json:"persons,omitempty"`
	Media   []CaseMedia `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Case) TableName() string {
	return "cases"
}

// Person returns the linked person, or nil. The join table permits
// many-to-many but the application keeps at most one person per case.
func (c *Case) Person() *Person {
	if len(c.Persons) == 0 {
		return nil
	}
	return &c.Persons[0]
}

// PrimaryPhoto returns the media row flagged as the case's primary photo, or nil.
func (c *Case) PrimaryPhoto() *CaseMedia {
	for i := range c.Media {
		if c.Media[i].Kind == MediaKindPhoto && c.Media[i].IsPrimary {
			return &c.Media[i]
		}
	}
	return nil
}

// PersonCase is the join row between persons and cases. The case service
// replaces it wholesale on every case update.
type PersonCase struct {
	PersonID uint `gorm:"primaryKey" json:"person_id"`
	CaseID   uint `gorm:"primaryKey" json:"case_id"`
}

func (PersonCase) TableName() string { return "person_cases" }

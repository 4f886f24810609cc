package models

import "time"

// Nationality values accepted on a person record. "OTRA" requires the
// free-text OtherNationality field to be filled in.
const (
	NationalityArgentina = "ARGENTINA"
	NationalityOther     = "OTRA"
)

// Person represents a person of interest tracked by the unit.
// It corresponds to the 'persons' table.
type Person struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName        string     `gorm:"not null" json:"first_name"`
	LastName         string     `gorm:"not null" json:"last_name"`
	DocumentType     string     `gorm:"not null;default:DNI" json:"document_type"`
	DocumentNumber   string     `gorm:"uniqueIndex;not null" json:"document_number"`
	Sex              string     `json:"sex"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Nationality      string     `gorm:"not null;default:ARGENTINA" json:"nationality"`
	OtherNationality *string    `json:"other_nationality,omitempty"` // required when Nationality == OTRA
	Notes            *string    `json:"notes,omitempty"`

	// legacy single-value contact fields; mirror the first entry of the
	// structured lists so older clients keep working
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Emails    []PersonEmail   `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"emails"`
	Phones    []PersonPhone   `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"phones"`
	Socials   []PersonSocial  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"social_networks"`
	Addresses []PersonAddress `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"addresses"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "persons"
}

// SyncLegacyContactFields mirrors the first structured email/phone entries
// onto the legacy single-value columns.
func (p *Person) SyncLegacyContactFields() {
	p.Email = nil
	p.Phone = nil
	if len(p.Emails) > 0 {
		v := p.Emails[0].Address
		p.Email = &v
	}
	if len(p.Phones) > 0 {
		v := p.Phones[0].Number
		p.Phone = &v
	}
}

// PersonEmail is one entry of a person's ordered email list.
type PersonEmail struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID uint   `gorm:"not null;index" json:"-"`
	Address  string `gorm:"not null" json:"address"`
	Label    string `json:"label"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

func (PersonEmail) TableName() string { return "person_emails" }

// PersonPhone is one entry of a person's ordered phone list.
type PersonPhone struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID uint   `gorm:"not null;index" json:"-"`
	Number   string `gorm:"not null" json:"number"`
	Label    string `json:"label"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

func (PersonPhone) TableName() string { return "person_phones" }

// PersonSocial is a social-network handle associated with a person.
type PersonSocial struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID uint   `gorm:"not null;index" json:"-"`
	Network  string `gorm:"not null" json:"network"` // e.g. "instagram", "facebook", "x"
	Handle   string `gorm:"not null" json:"handle"`
	URL      string `json:"url"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

func (PersonSocial) TableName() string { return "person_socials" }

// PersonAddress is one address sub-document of a person. At most one entry
// should carry the principal flag; the repository normalizes this on write.
type PersonAddress struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID  uint   `gorm:"not null;index" json:"-"`
	Street    string `gorm:"not null" json:"street"`
	Number    string `json:"number"`
	Province  string `json:"province"`
	Locality  string `json:"locality"`
	Reference string `json:"reference"`
	Principal bool   `gorm:"not null;default:false" json:"principal"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

func (PersonAddress) TableName() string { return "person_addresses" }

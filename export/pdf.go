package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/dfi-sistemas/legajosbackend/models"
)

const watermarkText = "USO OFICIAL"

// BuildDossierPDF renders the one-case dossier: judicial metadata, the linked
// person with contacts and addresses, the extra-info list and, when available,
// the primary photo. primaryPhotoPath may be empty; any other read error
// aborts the whole generation.
func BuildDossierPDF(kase *models.Case, primaryPhotoPath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate the UTF-8 field values
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Legajo %s", kase.ExpedienteNumber), true)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	drawWatermark(pdf)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Legajo de captura", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generado el %s", time.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if primaryPhotoPath != "" {
		info := pdf.RegisterImageOptions(primaryPhotoPath, fpdf.ImageOptions{ReadDpi: true})
		if pdf.Err() {
			return nil, fmt.Errorf("failed to embed primary photo: %s", pdf.Error())
		}
		w := 50.0
		h := w * info.Height() / info.Width()
		pdf.ImageOptions(primaryPhotoPath, 150, 35, w, h, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	sectionTitle(pdf, tr, "Datos judiciales")
	fieldRow(pdf, tr, "Expediente", kase.ExpedienteNumber)
	fieldRow(pdf, tr, "Carátula", kase.Caratula)
	fieldRow(pdf, tr, "Juzgado", kase.Court)
	fieldRow(pdf, tr, "Fiscalía", kase.ProsecutorOffice)
	fieldRow(pdf, tr, "Jurisdicción", kase.Jurisdiction)
	fieldRow(pdf, tr, "Delito", kase.Offense)
	fieldRow(pdf, tr, "Estado", string(kase.Status))
	fieldRow(pdf, tr, "Fuerza asignada", string(kase.AssignedForce))
	fieldRow(pdf, tr, "Recompensa", rewardLine(kase))
	pdf.Ln(4)

	if person := kase.Person(); person != nil {
		sectionTitle(pdf, tr, "Persona")
		fieldRow(pdf, tr, "Apellido y nombre", strings.TrimSpace(person.LastName+", "+person.FirstName))
		fieldRow(pdf, tr, "Documento", fmt.Sprintf("%s %s", person.DocumentType, person.DocumentNumber))
		fieldRow(pdf, tr, "Sexo", person.Sex)
		if person.BirthDate != nil {
			fieldRow(pdf, tr, "Fecha de nacimiento", person.BirthDate.Format("02/01/2006"))
		}
		nationality := person.Nationality
		if person.Nationality == models.NationalityOther && person.OtherNationality != nil {
			nationality = *person.OtherNationality
		}
		fieldRow(pdf, tr, "Nacionalidad", nationality)

		for _, e := range person.Emails {
			fieldRow(pdf, tr, "Email", e.Address)
		}
		for _, p := range person.Phones {
			fieldRow(pdf, tr, "Teléfono", p.Number)
		}
		for _, s := range person.Socials {
			fieldRow(pdf, tr, "Red social", fmt.Sprintf("%s: %s", s.Network, s.Handle))
		}
		for _, a := range person.Addresses {
			label := "Domicilio"
			if a.Principal {
				label = "Domicilio principal"
			}
			fieldRow(pdf, tr, label, formatAddress(a))
		}
		if person.Notes != nil && *person.Notes != "" {
			fieldRow(pdf, tr, "Observaciones", *person.Notes)
		}
		pdf.Ln(4)
	}

	if len(kase.ExtraFields) > 0 {
		sectionTitle(pdf, tr, "Información adicional")
		for _, f := range kase.ExtraFields {
			fieldRow(pdf, tr, f.Label, f.Value)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render dossier PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawWatermark(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 50)
	pdf.SetTextColor(225, 225, 225)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 150)
	pdf.Text(45, 160, watermarkText)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func fieldRow(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(100, 6, tr(value), "", "L", false)
}

func rewardLine(kase *models.Case) string {
	if kase.Reward != models.RewardYes {
		return "NO"
	}
	if kase.RewardAmountStat == models.RewardAmountConfirmed && kase.RewardAmount != nil {
		return fmt.Sprintf("SI - $ %.2f", *kase.RewardAmount)
	}
	return "SI - monto no confirmado"
}

func formatAddress(a models.PersonAddress) string {
	parts := []string{strings.TrimSpace(a.Street + " " + a.Number)}
	if a.Locality != "" {
		parts = append(parts, a.Locality)
	}
	if a.Province != "" {
		parts = append(parts, a.Province)
	}
	line := strings.Join(parts, ", ")
	if a.Reference != "" {
		line += " (" + a.Reference + ")"
	}
	return line
}

package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dfi-sistemas/legajosbackend/models"
)

const excelSheetName = "Legajos"

var excelHeaders = []string{
	"ID", "Expediente", "Carátula", "Juzgado", "Fiscalía", "Jurisdicción",
	"Delito", "Estado", "Fuerza", "Recompensa", "Monto", "Prioridad",
	"Persona", "Documento", "Actualizado",
}

// BuildCasesExcel renders one row per case into an xlsx workbook and returns
// its bytes. Used both for the batch export endpoint and inside ZIP bundles.
func BuildCasesExcel(cases []models.Case) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(excelSheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(excelSheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, kase := range cases {
		row := i + 2

		personName := ""
		personDoc := ""
		if person := kase.Person(); person != nil {
			personName = strings.TrimSpace(person.LastName + ", " + person.FirstName)
			personDoc = fmt.Sprintf("%s %s", person.DocumentType, person.DocumentNumber)
		}

		var amount interface{}
		if kase.RewardAmount != nil {
			amount = *kase.RewardAmount
		}

		values := []interface{}{
			kase.ID, kase.ExpedienteNumber, kase.Caratula, kase.Court,
			kase.ProsecutorOffice, kase.Jurisdiction, kase.Offense,
			string(kase.Status), string(kase.AssignedForce), string(kase.Reward),
			amount, kase.Priority, personName, personDoc,
			kase.UpdatedAt.Format("02/01/2006 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(excelSheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

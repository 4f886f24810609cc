package export

import (
	"archive/zip"
	"fmt"
	"io"
	"path"

	"github.com/dfi-sistemas/legajosbackend/media"
	"github.com/dfi-sistemas/legajosbackend/models"
)

// BuildCaseBundle writes a ZIP archive for one case to w: the PDF dossier,
// a one-row spreadsheet, and every stored photo and document. Entry names
// come from the original upload filenames and are de-duplicated when they
// collide. Any read error aborts the whole bundle.
func BuildCaseBundle(kase *models.Case, store media.Store, w io.Writer) error {
	primaryPhotoPath := ""
	if primary := kase.PrimaryPhoto(); primary != nil {
		fullPath, err := store.GetFullPath(primary.FilePath)
		if err != nil {
			return fmt.Errorf("failed to resolve primary photo: %w", err)
		}
		primaryPhotoPath = fullPath
	}

	dossier, err := BuildDossierPDF(kase, primaryPhotoPath)
	if err != nil {
		return err
	}
	spreadsheet, err := BuildCasesExcel([]models.Case{*kase})
	if err != nil {
		return err
	}

	zipWriter := zip.NewWriter(w)

	names := newEntryNamer()
	entry, err := zipWriter.Create(names.claim(fmt.Sprintf("legajo_%d.pdf", kase.ID)))
	if err != nil {
		return fmt.Errorf("failed to create dossier entry: %w", err)
	}
	if _, err := entry.Write(dossier); err != nil {
		return fmt.Errorf("failed to write dossier entry: %w", err)
	}

	entry, err = zipWriter.Create(names.claim(fmt.Sprintf("legajo_%d.xlsx", kase.ID)))
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet entry: %w", err)
	}
	if _, err := entry.Write(spreadsheet); err != nil {
		return fmt.Errorf("failed to write spreadsheet entry: %w", err)
	}

	for _, m := range kase.Media {
		subDir := "documentos"
		if m.Kind == models.MediaKindPhoto {
			subDir = "fotos"
		}

		file, _, err := store.Get(m.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open media file %s: %w", m.FilePath, err)
		}

		entryName := names.claim(path.Join(subDir, m.OriginalFilename))
		entry, err := zipWriter.Create(entryName)
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to create entry for %s: %w", m.OriginalFilename, err)
		}
		_, err = io.Copy(entry, file)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to write entry for %s: %w", m.OriginalFilename, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize case bundle: %w", err)
	}
	return nil
}

// entryNamer hands out unique archive entry names, suffixing duplicates with
// a counter before the extension ("foto.jpg", "foto (2).jpg", ...).
type entryNamer struct {
	used map[string]int
}

func newEntryNamer() *entryNamer {
	return &entryNamer{used: make(map[string]int)}
}

func (n *entryNamer) claim(name string) string {
	count := n.used[name]
	n.used[name] = count + 1
	if count == 0 {
		return name
	}

	ext := path.Ext(name)
	base := name[:len(name)-len(ext)]
	for {
		candidate := fmt.Sprintf("%s (%d)%s", base, count+1, ext)
		if n.used[candidate] == 0 {
			n.used[candidate] = 1
			return candidate
		}
		count++
	}
}

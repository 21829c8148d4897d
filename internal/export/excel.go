package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autorent/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservations"

// ScheduleSource is the slice of the repository the exporter reads from.
type ScheduleSource interface {
	ListReservationsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Exporter writes reservation schedules to Excel files for back-office use.
type Exporter struct {
	repo   ScheduleSource
	path   string
	logger *zerolog.Logger
}

func NewExporter(repo ScheduleSource, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{repo: repo, path: path, logger: logger}
}

// ExportSchedule writes every reservation overlapping the period to an xlsx
// file and returns its path.
func (e *Exporter) ExportSchedule(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	reservations, err := e.repo.ListReservationsByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("load reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format(models.DateLayout), end.Format(models.DateLayout)))

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	_ = f.MergeCell(sheetName, "A1", "H1")

	headers := []string{"Reservation", "Customer", "Car", "Start", "End", "Status", "Total", "Pickup code"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	carNames := make(map[string]string)
	userNames := make(map[string]string)

	for i, r := range reservations {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.userName(ctx, userNames, r.UserID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.carName(ctx, carNames, r.CarID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.StartDate.Format(models.DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.EndDate.Format(models.DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(r.Status))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.TotalAmount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.QRCode)

		if styleID, err := statusStyle(f, r.Status); err == nil {
			_ = f.SetCellStyle(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "F", 14)
	_ = f.SetColWidth(sheetName, "G", "G", 10)
	_ = f.SetColWidth(sheetName, "H", "H", 38)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_%s_to_%s.xlsx",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(reservations)).Msg("Excel export created")
	return filePath, nil
}

func (e *Exporter) carName(ctx context.Context, cache map[string]string, carID string) string {
	if name, ok := cache[carID]; ok {
		return name
	}
	car, err := e.repo.GetCar(ctx, carID)
	if err != nil {
		cache[carID] = carID
		return carID
	}
	name := fmt.Sprintf("%s %s (%d)", car.Make, car.Model, car.Year)
	cache[carID] = name
	return name
}

func (e *Exporter) userName(ctx context.Context, cache map[string]string, userID string) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	user, err := e.repo.GetUserByID(ctx, userID)
	if err != nil {
		cache[userID] = userID
		return userID
	}
	name := fmt.Sprintf("%s <%s>", user.Name, user.Email)
	cache[userID] = name
	return name
}

func statusStyle(f *excelize.File, status models.ReservationStatus) (int, error) {
	var color string
	switch status {
	case models.StatusConfirmed, models.StatusCompleted:
		color = "#C6EFCE"
	case models.StatusPending:
		color = "#FFEB9C"
	case models.StatusCancelled:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

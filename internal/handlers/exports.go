package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/repository"
)

const timeLayout = time.RFC3339

const (
	categoryServer         = "server"
	categorySwitch         = "switch"
	categoryNetwork        = "network"
	categoryStorage        = "storage"
	categoryInfrastructure = "infrastructure"
	categoryTotal          = "total"
)

type ReportExportResponse struct {
	ID             uuid.UUID           `json:"id"`
	Source         models.ReportSource `json:"source"`
	CreatedAt      string              `json:"created_at"`
	TotalFirstYear float64             `json:"total_first_year"`
	Input          json.RawMessage     `json:"input,omitempty"`
	Result         json.RawMessage     `json:"result"`
}

// ExportJSON выгружает архивный отчет в JSON-файл.
func (h *PlannerHandler) ExportJSON(c echo.Context) error {
	report, err := h.loadReport(c)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	response := ReportExportResponse{
		ID:             report.ID,
		Source:         report.Source,
		CreatedAt:      report.CreatedAt.UTC().Format(timeLayout),
		TotalFirstYear: report.TotalFirstYear,
		Input:          report.Input,
		Result:         report.Result,
	}

	filename := "report-" + report.ID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, response)
}

// ExportCSV выгружает перечень оборудования архивного отчета в CSV-файл.
func (h *PlannerHandler) ExportCSV(c echo.Context) error {
	report, err := h.loadReport(c)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	var result planning.Result
	if err := json.Unmarshal(report.Result, &result); err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeEquipmentCSV(writer, result); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "report-" + report.ID.String() + "-equipment.csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// loadReport возвращает отчет сессии; nil без ошибки означает, что ответ уже записан.
func (h *PlannerHandler) loadReport(c echo.Context) (*models.ArchivedReport, error) {
	sess, err := currentSession(c)
	if err != nil {
		return nil, err
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, badRequest(c, h.Catalog.Alert("invalid_report"))
	}
	if h.Reports == nil {
		return nil, notFound(c, h.Catalog.Alert("report_not_found"))
	}

	report, err := h.Reports.Get(c.Request().Context(), sess.ID, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(c, h.Catalog.Alert("report_not_found"))
		}
		return nil, serverError(c)
	}

	return &report, nil
}

func writeEquipmentCSV(writer *csv.Writer, result planning.Result) error {
	header := []string{
		"category",
		"key",
		"role",
		"model",
		"count",
		"spec",
		"unit_price",
		"total_price",
		"details",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	resources := result.Resources

	for _, entry := range resources.Servers {
		server := entry.Value
		spec := formatFloat(server.Config.CPU) + "C/" + formatFloat(server.Config.MemoryGB) + "GB/" + formatFloat(server.Config.DiskGB) + "GB"
		row := []string{
			categoryServer,
			entry.Key,
			server.Role,
			server.Config.Model,
			formatInt(server.Count),
			spec,
			formatFloat(server.UnitPrice),
			formatFloat(server.TotalPrice),
			server.Details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, entry := range resources.Switches {
		sw := entry.Value
		row := []string{
			categorySwitch,
			entry.Key,
			sw.Role,
			sw.Config.Model,
			formatInt(sw.Count),
			string(sw.Config.Speed),
			"",
			"",
			sw.Details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, entry := range planning.ActiveDevices(resources.Network.Devices) {
		device := entry.Value
		row := []string{
			categoryNetwork,
			entry.Key,
			device.Role,
			device.Config.Model,
			formatInt(device.Count),
			string(device.Config.Speed),
			formatFloat(device.UnitPrice),
			formatFloat(device.TotalPrice),
			device.Details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, entry := range resources.Storage.Items() {
		item := entry.Value
		row := []string{
			categoryStorage,
			entry.Key,
			item.Role,
			item.Config.Type,
			"",
			formatFloat(item.CapacityTB) + "TB",
			formatFloat(item.PricePerTB),
			formatFloat(item.TotalPrice),
			item.Details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	for _, entry := range resources.Infrastructure.Items() {
		item := entry.Value
		spec := ""
		if item.CapacityKW != 0 {
			spec = formatFloat(item.CapacityKW) + "kW"
		}
		row := []string{
			categoryInfrastructure,
			entry.Key,
			"",
			"",
			formatFloat(item.Count),
			spec,
			formatFloat(item.UnitPrice),
			formatFloat(item.TotalPrice),
			item.Details,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Write([]string{categoryTotal, "", "", "", "", "", "", formatFloat(resources.Cost.FirstYear()), ""})
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
	"github.com/tealeg/xlsx"
)

// loadSubscriberAggregates runs the same two-phase fetch as GetSubscribers
// and returns the full aggregate set, newest activity first.
func loadSubscriberAggregates(shop, search string) ([]SubscriberAggregate, error) {
	entryQuery := config.DB.Model(&models.PopupAnalytics{}).
		Where("shop = ? AND event_type = ? AND email IS NOT NULL", shop, models.EventEmailEntered)
	if search != "" {
		entryQuery = entryQuery.Where("email LIKE ?", "%"+search+"%")
	}

	var entryRows []models.PopupAnalytics
	if err := entryQuery.Find(&entryRows).Error; err != nil {
		return nil, err
	}

	emailSet := make(map[string]bool)
	emails := make([]string, 0)
	for i := range entryRows {
		if entryRows[i].Email == nil {
			continue
		}
		email := *entryRows[i].Email
		if email != "" && !emailSet[email] {
			emailSet[email] = true
			emails = append(emails, email)
		}
	}
	if len(emails) == 0 {
		return []SubscriberAggregate{}, nil
	}

	var events []models.PopupAnalytics
	if err := config.DB.Where("shop = ? AND email IN ?", shop, emails).Find(&events).Error; err != nil {
		return nil, err
	}
	var discounts []models.DiscountCode
	if err := config.DB.Where("shop = ? AND email IN ?", shop, emails).Find(&discounts).Error; err != nil {
		return nil, err
	}

	subscribers := BuildSubscriberAggregates(events, discounts)
	SortSubscriberAggregates(subscribers, "lastActivity", "desc")
	return subscribers, nil
}

// ExportSubscribers downloads the subscriber list as csv, excel or pdf
func ExportSubscribers(c *gin.Context) {
	utils.LogInfo("ExportSubscribers called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	format := c.DefaultQuery("format", "csv")
	search := c.Query("search")

	subscribers, err := loadSubscriberAggregates(shop, search)
	if err != nil {
		utils.LogError("Failed to load subscribers for export: %v", err)
		utils.InternalServerError(c, "Failed to export subscribers", err.Error())
		return
	}
	utils.LogDebug("Exporting %d subscribers as %s", len(subscribers), format)

	filename := fmt.Sprintf("subscribers-%s-%s", time.Now().Format("2006-01-02"), uuid.New().String()[:8])

	switch format {
	case "csv":
		exportSubscribersCSV(c, shop, subscribers, filename)
	case "excel":
		exportSubscribersExcel(c, shop, subscribers, filename)
	case "pdf":
		exportSubscribersPDF(c, shop, subscribers, filename)
	default:
		utils.LogError("Invalid export format: %s", format)
		utils.BadRequest(c, "Invalid format", "Format must be csv, excel, or pdf")
	}
}

var subscriberExportHeaders = []string{
	"Email", "First Entry", "Last Activity", "Interactions", "Entries",
	"Views", "Spins", "Wins", "Losses", "Codes Copied", "Discount Codes", "Active Codes",
}

func subscriberExportRow(sub SubscriberAggregate) []string {
	return []string{
		sub.Email,
		sub.FirstEmailEntry.Format("2006-01-02 15:04"),
		sub.LastActivity.Format("2006-01-02 15:04"),
		strconv.Itoa(sub.TotalInteractions),
		strconv.Itoa(sub.EmailEntries),
		strconv.Itoa(sub.Views),
		strconv.Itoa(sub.Spins),
		strconv.Itoa(sub.Wins),
		strconv.Itoa(sub.Losses),
		strconv.Itoa(sub.CodesCopied),
		strconv.Itoa(sub.TotalDiscounts),
		strconv.Itoa(sub.ActiveDiscounts),
	}
}

func exportSubscribersCSV(c *gin.Context, shop string, subscribers []SubscriberAggregate, filename string) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write(subscriberExportHeaders)
	for _, sub := range subscribers {
		_ = writer.Write(subscriberExportRow(sub))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		utils.LogError("Failed to write CSV export: %v", err)
		utils.InternalServerError(c, "Failed to generate CSV", err.Error())
		return
	}

	utils.LogInfo("Generated CSV export for shop %s", shop)
	c.Header("Content-Disposition", "attachment; filename="+filename+".csv")
	c.Data(200, "text/csv", buf.Bytes())
}

func exportSubscribersExcel(c *gin.Context, shop string, subscribers []SubscriberAggregate, filename string) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Subscribers")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("PopReach - Subscriber Report")
	shopRow := sheet.AddRow()
	shopRow.AddCell().SetString("Shop: " + shop)
	dateRow := sheet.AddRow()
	dateRow.AddCell().SetString("Generated: " + time.Now().Format("2006-01-02 15:04"))
	sheet.AddRow() // spacing

	headerRow := sheet.AddRow()
	for _, h := range subscriberExportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, sub := range subscribers {
		row := sheet.AddRow()
		for _, value := range subscriberExportRow(sub) {
			row.AddCell().SetString(value)
		}
	}

	utils.LogInfo("Generated Excel export for shop %s", shop)
	c.Header("Content-Disposition", "attachment; filename="+filename+".xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel export: %v", err)
	}
}

func exportSubscribersPDF(c *gin.Context, shop string, subscribers []SubscriberAggregate, filename string) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "PopReach - Subscriber Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, "Shop: "+shop)
	pdf.Ln(6)
	pdf.Cell(0, 8, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	colWidths := []float64{62, 28, 28, 20, 16, 16, 16, 14, 16, 22, 24, 20}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range subscriberExportHeaders {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, sub := range subscribers {
		for i, value := range subscriberExportRow(sub) {
			pdf.CellFormat(colWidths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render PDF export: %v", err)
		utils.InternalServerError(c, "Failed to generate PDF", err.Error())
		return
	}

	utils.LogInfo("Generated PDF export for shop %s", shop)
	c.Header("Content-Disposition", "attachment; filename="+filename+".pdf")
	c.Data(200, "application/pdf", buf.Bytes())
}

// EmailSubscriberReportRequest optionally overrides the recipient
type EmailSubscriberReportRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

// EmailSubscriberReport mails a summary of the shop's subscribers to the
// merchant.
func EmailSubscriberReport(c *gin.Context) {
	utils.LogInfo("EmailSubscriberReport called")

	shop := c.GetString("shop")
	if shop == "" {
		utils.BadRequest(c, "Shop is required", nil)
		return
	}

	var req EmailSubscriberReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid report request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	recipient := req.Email
	if recipient == "" {
		var shopRow models.Shop
		if err := config.DB.Where("domain = ?", shop).First(&shopRow).Error; err != nil || !utils.ValidEmail(shopRow.Email) {
			utils.LogError("No recipient available for shop %s", shop)
			utils.BadRequest(c, "No recipient email on file; provide one", nil)
			return
		}
		recipient = shopRow.Email
	}

	subscribers, err := loadSubscriberAggregates(shop, "")
	if err != nil {
		utils.LogError("Failed to load subscribers for report: %v", err)
		utils.InternalServerError(c, "Failed to build report", err.Error())
		return
	}
	summary := SummarizeSubscribers(subscribers, time.Now())

	if err := utils.SendSubscriberReport(recipient, shop, utils.SubscriberReportData{
		TotalSubscribers:  summary.TotalSubscribers,
		ActiveSubscribers: summary.ActiveSubscribers,
		TotalInteractions: summary.TotalPopupInteractions,
		TotalEmailEntries: summary.TotalEmailEntries,
		TotalWins:         summary.TotalWins,
		TotalSpins:        summary.TotalSpins,
		TotalDiscounts:    summary.TotalDiscountCodes,
	}); err != nil {
		utils.LogError("Failed to send report to %s: %v", recipient, err)
		utils.InternalServerError(c, "Failed to send report", err.Error())
		return
	}

	utils.LogInfo("Sent subscriber report for shop %s to %s", shop, recipient)
	utils.Success(c, "Report sent successfully", gin.H{
		"recipient": recipient,
	})
}

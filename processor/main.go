package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"stock-app/config"
	"stock-app/controllers/idgen"
	"stock-app/database"
	"stock-app/models"
	"stock-app/services"

	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// The processor scans a drop folder for receipt spreadsheets exported by the
// supplier portal, confirms the listed quantities into semi finished stock
// and mails an import report. Each file is handled exactly once.

type importResult struct {
	Filename  string
	Confirmed int
	Skipped   []string
}

func dropFolder() string {
	if folder := os.Getenv("RECEIPT_DROP_FOLDER"); folder != "" {
		return folder
	}
	return "./receipt-data/unprocessed"
}

func processedFolder() string {
	if folder := os.Getenv("RECEIPT_PROCESSED_FOLDER"); folder != "" {
		return folder
	}
	return "./receipt-data/processed"
}

func checkUnprocessedFiles(db *gorm.DB) {
	files, err := filepath.Glob(filepath.Join(dropFolder(), "*.xlsx"))
	if err != nil {
		log.Fatal("Failed to read drop folder:", err)
	}

	for _, file := range files {
		processFile(db, file)
	}
}

func processFile(db *gorm.DB, filename string) {
	fileNameOnly := filepath.Base(filename)

	var existingFile models.FileLog
	if err := db.Where("filename = ?", fileNameOnly).First(&existingFile).Error; err == nil {
		log.Println("File already processed, skip:", filename)
		return
	}

	info, err := os.Stat(filename)
	if err != nil {
		log.Println("Failed to stat file:", err)
		return
	}

	fmt.Println("Processing file:", filename)

	result, err := processReceiptSheet(db, filename)
	if err != nil {
		log.Println("Failed to process file:", err)
		return
	}

	db.Create(&models.FileLog{Filename: fileNameOnly, DateModified: info.ModTime()})

	if err := moveToProcessed(filename); err != nil {
		log.Fatalf("Failed to move file to processed folder: %v", err)
	}

	if config.ReportRecipient != "" {
		if err := sendImportReport([]string{config.ReportRecipient}, result); err != nil {
			log.Println("Failed to send report:", err)
		}
	}

	fmt.Printf("File processed: %s (%d confirmed, %d skipped)\n",
		fileNameOnly, result.Confirmed, len(result.Skipped))
}

// processReceiptSheet reads rows of SKU, warehouse code and quantity and
// confirms each into semi finished stock. Bad rows are reported, not fatal.
func processReceiptSheet(db *gorm.DB, filename string) (*importResult, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, err
	}

	result := &importResult{Filename: filepath.Base(filename)}
	svc := services.NewTransitionService(db)

	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		sku, whsCode := row[0], row[1]
		quantity, err := strconv.Atoi(row[2])
		if err != nil || quantity <= 0 {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: invalid quantity %q", i+1, row[2]))
			continue
		}

		var product models.Product
		if err := db.Where("sku = ?", sku).First(&product).Error; err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: unknown sku %s", i+1, sku))
			continue
		}
		var warehouse models.Warehouse
		if err := db.Where("code = ?", whsCode).First(&warehouse).Error; err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: unknown warehouse %s", i+1, whsCode))
			continue
		}

		notes := fmt.Sprintf("Receipt import %s", result.Filename)
		if _, err := svc.ConfirmReceipt(product.ID, warehouse.ID, quantity, nil, notes, 0); err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Confirmed++
	}

	return result, nil
}

func moveToProcessed(filename string) error {
	folder := processedFolder()
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return err
		}
	}
	return os.Rename(filename, filepath.Join(folder, filepath.Base(filename)))
}

func sendImportReport(toEmails []string, result *importResult) error {
	subject := "Receipt import " + result.Filename

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Receipt import finished</h3>
				<p>File: <strong>%s</strong></p>
				<p>Confirmed rows: <strong>%d</strong></p>
				<p>Skipped rows: <strong>%d</strong></p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, result.Filename, result.Confirmed, len(result.Skipped))

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPUser)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}
	return nil
}

func main() {
	config.LoadConfig()

	db, err := database.OpenDatabaseConnection(config.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	idgen.Init()

	fmt.Println("🚀 Receipt processor running...")

	checkUnprocessedFiles(db)

	fmt.Println("✅ All receipt files processed")
}

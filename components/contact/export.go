package contact

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/tealeg/xlsx"

	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/content"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"ID", "Received", "Name", "Email", "Phone", "Company", "Subject", "Message",
	"Read", "IP", "Country",
}

// export streams the inbox as a spreadsheet.  The workbook is built in
// memory first so a failure can still be answered with JSON.
func (c *Component) export(w http.ResponseWriter, r *http.Request) {
	rows, err := c.d.Content.Contacts(r.Context(), r.URL.Query().Get("unread") == "1")
	if err != nil {
		api.Error(w, r, err)
		return
	}
	body, err := workbook(rows)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.xlsx"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func workbook(rows []content.Contact) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Contacts")
	if err != nil {
		return nil, fmt.Errorf("contacts sheet: %w", err)
	}
	head := sheet.AddRow()
	for _, h := range exportHeaders {
		head.AddCell().SetValue(h)
	}
	for _, m := range rows {
		row := sheet.AddRow()
		row.AddCell().SetValue(m.ID)
		row.AddCell().SetValue(m.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(m.Name)
		row.AddCell().SetValue(m.Email)
		row.AddCell().SetValue(m.Phone)
		row.AddCell().SetValue(m.Company)
		row.AddCell().SetValue(m.Subject)
		row.AddCell().SetValue(m.Message)
		row.AddCell().SetValue(m.IsRead)
		row.AddCell().SetValue(m.IP)
		row.AddCell().SetValue(m.Country)
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write contacts workbook: %w", err)
	}
	return buf.Bytes(), nil
}

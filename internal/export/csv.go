// Package export renders registrations as a spreadsheet-friendly CSV.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"sg44_backend/internal/models"
)

const (
	// BOM makes spreadsheet software detect UTF-8.
	BOM = "\uFEFF"

	ContentType = "text/csv; charset=utf-8"
	Filename    = "registrations.csv"
)

// Header is the fixed column order of the export.
var Header = []string{
	"報名編號",
	"使用者姓名",
	"使用者信箱",
	"聯絡地址",
	"票種",
	"應繳金額",
	"繳費狀態",
	"匯款後五碼",
	"匯款日期",
	"參與身分",
	"發表形式",
	"Day1用餐",
	"Day2用餐",
	"晚宴出席",
	"飲食偏好",
	"特殊飲食說明",
	"備註",
	"報名時間",
}

// CreatedAtZone is the zone used for the created-at column.
var CreatedAtZone = time.FixedZone("Asia/Taipei", 8*60*60)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Row flattens one registration into the export columns. Free-text cells have
// line breaks collapsed to spaces so each record stays on one physical line.
func Row(r *models.Registration) []string {
	var name, email string
	if r.User != nil {
		name, email = r.User.Name, r.User.Email
	}

	role := string(r.ParticipantRole)
	if r.ParticipantRole == models.ParticipantOther {
		role = deref(r.ParticipantRoleOther)
	}

	var diet string
	if r.DietaryPreference != nil {
		diet = string(*r.DietaryPreference)
	}

	return []string{
		r.ID,
		newlines.Replace(name),
		email,
		newlines.Replace(r.ContactAddress),
		string(r.TicketType),
		strconv.Itoa(r.Amount),
		string(r.PaymentStatus),
		r.PaymentAccountLast5,
		r.PaymentDateString(),
		newlines.Replace(role),
		string(r.PresentationType),
		string(r.MealDay1),
		string(r.MealDay2),
		string(r.Banquet),
		diet,
		newlines.Replace(deref(r.DietaryOther)),
		newlines.Replace(r.Remarks),
		r.CreatedAt.In(CreatedAtZone).Format("2006-01-02 15:04:05"),
	}
}

// WriteCSV writes the BOM, the header and one row per registration. Every
// cell is double-quoted with embedded quotes doubled, and rows are separated
// by a bare "\n" with no trailing newline.
func WriteCSV(w io.Writer, regs []models.Registration) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(BOM); err != nil {
		return err
	}
	writeLine(bw, Header)
	for i := range regs {
		bw.WriteByte('\n')
		writeLine(bw, Row(&regs[i]))
	}
	return bw.Flush()
}

func writeLine(bw *bufio.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		bw.WriteByte('"')
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

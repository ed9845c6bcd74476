// Package report arma exportaciones de conversaciones para administración.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"unibot/internal/domain"
)

const (
	ConversationsSheet = "Conversations"
	XLSXContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timestampLayout    = "2006-01-02 15:04:05"
)

var conversationHeader = []interface{}{"Query ID", "User ID", "Asked At", "Question", "Response", "Answered At"}

// WriteConversations escribe una planilla con una fila por turno, en el orden recibido.
// Un turno sin respuesta deja vacías las dos últimas columnas.
func WriteConversations(w io.Writer, turns []domain.ChatTurn) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ConversationsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ConversationsSheet, "A1", &conversationHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range turns {
		row := []interface{}{
			t.Query.ID,
			t.Query.UserID,
			formatTime(t.Query.CreatedAt),
			t.Query.Content,
			"",
			"",
		}
		if t.Response != nil {
			row[4] = t.Response.Text
			row[5] = formatTime(t.Response.CreatedAt)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ConversationsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

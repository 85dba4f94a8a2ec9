// ABOUTME: Student commands for document polishing reservations
// ABOUTME: Require a student session and use the canonical client

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/session"
)

var reservation client.DocumentReservation

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Student center commands",
	Long: `Student center commands. A student session is required.

Exit codes:
  0 - Success
  1 - Not signed in as a student, or the session expired
  2 - Error (connectivity, backend error)`,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Document polishing reservations",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your document reservations",
	Run:   roleRun(session.RoleStudent, listDocuments),
}

var documentsReserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Reserve document polishing with a teacher",
	Run:   roleRun(session.RoleStudent, reserveDocument),
}

func init() {
	rootCmd.AddCommand(studentCmd)
	studentCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsListCmd, documentsReserveCmd)

	f := documentsReserveCmd.Flags()
	f.IntVar(&reservation.TeacherID, "teacher-id", 0, "Teacher to review the documents (required)")
	f.StringVar(&reservation.DocumentType, "type", "personal_statement", "Document type")
	f.IntVar(&reservation.DocumentCount, "count", 1, "Number of documents")
	f.StringVar(&reservation.TargetSchool, "school", "", "Target school")
	f.StringVar(&reservation.Notes, "notes", "", "Notes for the teacher")
}

func listDocuments(ctx context.Context, w io.Writer, c *client.Client) error {
	docs, err := c.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		writeJSON(w, docs)
		return nil
	}
	fmt.Fprintln(w, formatDocumentsHuman(docs))
	return nil
}

func reserveDocument(ctx context.Context, w io.Writer, c *client.Client) error {
	if reservation.TeacherID <= 0 {
		return fmt.Errorf("--teacher-id is required")
	}
	if reservation.DocumentCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	result, err := c.ReserveDocument(ctx, &reservation)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		writeJSON(w, result)
		return nil
	}

	msg := "Reservation created"
	if m, ok := result["message"].(string); ok && m != "" {
		msg = m
	}
	if id, ok := result["reservation_id"]; ok {
		msg += fmt.Sprintf(" (reservation %v)", id)
	}
	fmt.Fprintln(w, msg)
	return nil
}

// formatDocumentsHuman formats reservations for human readability
func formatDocumentsHuman(docs []map[string]interface{}) string {
	if len(docs) == 0 {
		return "No document reservations"
	}
	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "#%v %v x%v  teacher: %v  status: %v",
			field(d, "id"), field(d, "document_type"), field(d, "document_count"),
			field(d, "teacher_name"), field(d, "status"))
		if p, ok := d["progress"]; ok && p != nil {
			fmt.Fprintf(&b, " (%v%%)", p)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func field(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return "-"
}

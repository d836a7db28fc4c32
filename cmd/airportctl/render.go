package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	statusColors = map[string]lipgloss.Color{
		string(models.TicketStatusConfirmed): "10",
		string(models.TicketStatusCancelled): "9",
		string(models.FlightStatusOnTime):    "10",
		string(models.FlightStatusDelayed):   "11",
		string(models.FlightStatusCanceled):  "9",
	}
)

const timeLayout = "2006-01-02 15:04"

// renderTable writes rows under headers with every column padded to its
// widest cell.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, faintStyle.Render("(none)"))
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cellStyle.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	fmt.Fprintln(w, line(headers, headerStyle))
	for _, row := range rows {
		fmt.Fprintln(w, line(row, lipgloss.NewStyle()))
	}
}

func status(s string) string {
	color, ok := statusColors[s]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

func renderPassengers(w io.Writer, passengers []*models.Passenger) {
	rows := make([][]string, 0, len(passengers))
	for _, p := range passengers {
		flight, class := "-", "-"
		if p.FlightID != nil {
			flight = strconv.Itoa(*p.FlightID)
		}
		if p.SeatClass != nil {
			class = string(*p.SeatClass)
		}
		checkedIn := "no"
		if p.CheckedIn {
			checkedIn = fmt.Sprintf("yes (%.1fkg)", p.BaggageWeight)
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Age), string(p.Gender), p.Nationality,
			p.PassportNumber, status(string(p.TicketStatus)), flight, class, checkedIn,
		})
	}
	renderTable(w, []string{"ID", "NAME", "AGE", "GENDER", "NATIONALITY", "PASSPORT", "TICKET", "FLIGHT", "CLASS", "CHECKED IN"}, rows)
}

func renderPlanes(w io.Writer, planes []*models.Plane) {
	rows := make([][]string, 0, len(planes))
	for _, p := range planes {
		rows = append(rows, []string{
			strconv.Itoa(p.ID), p.Model,
			strconv.Itoa(p.ExecutiveSeats), strconv.Itoa(p.BusinessSeats), strconv.Itoa(p.EconomySeats),
			strconv.Itoa(p.TotalSeats),
		})
	}
	renderTable(w, []string{"ID", "MODEL", "EXECUTIVE", "BUSINESS", "ECONOMY", "TOTAL"}, rows)
}

func renderFleet(w io.Writer, fleet []models.FleetTypeCount) {
	rows := make([][]string, 0, len(fleet))
	for _, ft := range fleet {
		rows = append(rows, []string{
			ft.Model,
			fmt.Sprintf("%d/%d/%d", ft.ExecutiveSeats, ft.BusinessSeats, ft.EconomySeats),
			strconv.Itoa(ft.Count),
		})
	}
	renderTable(w, []string{"MODEL", "SEATS (E/B/Y)", "COUNT"}, rows)
}

func renderFlights(w io.Writer, flights []*models.Flight) {
	rows := make([][]string, 0, len(flights))
	for _, f := range flights {
		seats := make([]string, 0, len(models.SeatClasses))
		for _, class := range models.SeatClasses {
			seats = append(seats, fmt.Sprintf("%d/%d", f.AvailableSeats[class], f.Capacity[class]))
		}
		rows = append(rows, []string{
			strconv.Itoa(f.ID), f.Destination,
			f.DepartureTime.Format(timeLayout), f.ArrivalTime.Format(timeLayout),
			strconv.Itoa(f.PlaneID()), status(string(f.Status)), strings.Join(seats, " "),
		})
	}
	renderTable(w, []string{"ID", "DESTINATION", "DEPARTS", "ARRIVES", "PLANE", "STATUS", "FREE E/B/Y"}, rows)
}

func printOK(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf(format, args...)))
}

// printError writes err as "kind: message" for domain failures.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if kind := models.KindOf(err); kind != "" {
		msg = string(kind) + ": " + msg
	}
	fmt.Fprintln(w, errorStyle.Render(msg))
}

package models

import (
	"fmt"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// DailyCountResponse количество записей за календарный день
type DailyCountResponse struct {
	Day   string `json:"day"` // "2006-01-02"
	Count int    `json:"count"`
}

// HourCountResponse количество записей в часовой корзине
type HourCountResponse struct {
	Hour  string `json:"hour"` // "00".."23"
	Count int    `json:"count"`
}

// RepeatCustomerResponse сводка визитов одного клиента
type RepeatCustomerResponse struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Visits    int     `json:"visits"`
	LastVisit string  `json:"lastVisit"` // ISO 8601
}

// StatusTotalsResponse количество записей по статусам
type StatusTotalsResponse struct {
	Scheduled int `json:"scheduled"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// StatsResponse полная сводка для админки
type StatsResponse struct {
	DailyVolume     []DailyCountResponse     `json:"dailyVolume"`
	HourlyHistogram []HourCountResponse      `json:"hourlyHistogram"`
	TopCustomers    []RepeatCustomerResponse `json:"topCustomers"`
	StatusTotals    StatusTotalsResponse     `json:"statusTotals"`
}

// FromDomainReport конвертирует domain сводку в DTO
func FromDomainReport(r *domain.StatsReport) *StatsResponse {
	resp := &StatsResponse{
		DailyVolume:     make([]DailyCountResponse, 0, len(r.DailyVolume)),
		HourlyHistogram: make([]HourCountResponse, 0, len(r.HourlyHistogram)),
		TopCustomers:    make([]RepeatCustomerResponse, 0, len(r.TopCustomers)),
		StatusTotals: StatusTotalsResponse{
			Scheduled: r.StatusTotals.Scheduled,
			Confirmed: r.StatusTotals.Confirmed,
			Cancelled: r.StatusTotals.Cancelled,
			Completed: r.StatusTotals.Completed,
			Total:     r.StatusTotals.Total,
		},
	}

	for _, d := range r.DailyVolume {
		resp.DailyVolume = append(resp.DailyVolume, DailyCountResponse{
			Day:   d.Day.Format(domain.DateFormat),
			Count: d.Count,
		})
	}

	for _, h := range r.HourlyHistogram {
		resp.HourlyHistogram = append(resp.HourlyHistogram, HourCountResponse{
			Hour:  fmt.Sprintf("%02d", h.Hour),
			Count: h.Count,
		})
	}

	for _, c := range r.TopCustomers {
		resp.TopCustomers = append(resp.TopCustomers, RepeatCustomerResponse{
			Name:      c.Name,
			Email:     c.Email,
			Phone:     c.Phone,
			Visits:    c.Visits,
			LastVisit: c.LastVisit.Format(time.RFC3339),
		})
	}

	return resp
}

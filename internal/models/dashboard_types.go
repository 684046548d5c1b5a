package models

import "time"

type MemberCounts struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Expired      int `json:"expired"`
	Inactive     int `json:"inactive"`
	Suspended    int `json:"suspended"`
	NewThisMonth int `json:"newThisMonth"`
}

type ExpiringMembership struct {
	ID            string    `json:"id"`
	MemberCode    string    `json:"memberId"`
	MemberName    string    `json:"memberName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PlanName      string    `json:"planName"`
	EndDate       time.Time `json:"endDate"`
	DaysRemaining int       `json:"daysRemaining"`
}

type Total struct {
	Total int `json:"total"`
}

// DashboardSummary is the response of GET /api/admin/dashboard/summary.
type DashboardSummary struct {
	Members             MemberCounts         `json:"members"`
	ExpiringMemberships []ExpiringMembership `json:"expiringMemberships"`
	Staff               Total                `json:"staff"`
	Trainers            Total                `json:"trainers"`
}

type RevenueBucket struct {
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
}

type RevenueWindows struct {
	Today RevenueBucket `json:"today"`
	Month RevenueBucket `json:"month"`
	Year  RevenueBucket `json:"year"`
}

type RecentPayment struct {
	ID          string    `json:"id"`
	PaymentCode string    `json:"paymentId"`
	MemberName  string    `json:"memberName"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}

type MethodBreakdown struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// RevenueSummary is the response of GET /api/admin/dashboard/revenue.
type RevenueSummary struct {
	Revenue                RevenueWindows    `json:"revenue"`
	RecentPayments         []RecentPayment   `json:"recentPayments"`
	PaymentMethodBreakdown []MethodBreakdown `json:"paymentMethodBreakdown"`
}

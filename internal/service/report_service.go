package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

// Fixed design limits for the ranked report sections.
const (
	lowAttendanceThreshold = 75.0
	lowAttendanceLimit     = 20
	attentionThreshold     = 50.0
	attentionLimit         = 10
	topPerformersLimit     = 10
	topDonorsLimit         = 10
)

const dashboardCacheKey = "report:dashboard"

type reportStore interface {
	DashboardCounts(ctx context.Context, now time.Time, eventDays, birthdayDays int) (models.DashboardCounts, error)
	StudentRows(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReportRow, error)
	AttendanceRows(ctx context.Context, window models.TimeWindow, class string) ([]models.AttendanceRow, error)
	ActiveStudents(ctx context.Context, class string) ([]models.StudentRef, error)
	GradeRows(ctx context.Context, filter models.GradeReportFilter) ([]models.GradeRow, error)
	PaymentRows(ctx context.Context, window models.TimeWindow, paymentType string) ([]models.PaymentRow, error)
	DonationRows(ctx context.Context, window models.TimeWindow) ([]models.DonationRow, error)
}

// ReportServiceConfig tunes dashboard lookahead windows and caching.
type ReportServiceConfig struct {
	DashboardCacheTTL     time.Duration
	EventLookaheadDays    int
	BirthdayLookaheadDays int
}

// ReportService computes the on-demand aggregation reports. Each report is
// assembled fresh per request from a point-in-time row snapshot; only the
// dashboard is cached.
type ReportService struct {
	store  reportStore
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    ReportServiceConfig
}

// NewReportService constructs a ReportService with sane defaults.
func NewReportService(store reportStore, cache *CacheService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if cfg.DashboardCacheTTL <= 0 {
		cfg.DashboardCacheTTL = 5 * time.Minute
	}
	if cfg.EventLookaheadDays <= 0 {
		cfg.EventLookaheadDays = 7
	}
	if cfg.BirthdayLookaheadDays <= 0 {
		cfg.BirthdayLookaheadDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: store, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Dashboard returns the landing-page snapshot and whether it came from cache.
func (s *ReportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	if s.cache != nil {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	counts, err := s.store.DashboardCounts(ctx, s.now().UTC(), s.cfg.EventLookaheadDays, s.cfg.BirthdayLookaheadDays)
	if err != nil {
		return nil, false, dataUnavailable(err, "failed to load dashboard totals")
	}

	summary := &dto.DashboardResponse{
		TotalStudents:  counts.TotalStudents,
		TotalDonors:    counts.TotalDonors,
		TotalCollected: counts.CollectedAmount,
		PendingPayments: dto.PendingPaymentsSummary{
			Count:  counts.PendingCount,
			Amount: counts.PendingAmount,
		},
		TotalDonations:    counts.TotalDonations,
		UpcomingEvents:    counts.UpcomingEvents,
		UpcomingBirthdays: counts.UpcomingBirthdays,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cfg.DashboardCacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// Students returns the roster report with derived attendance and grade
// metrics plus by-class and by-status roll-ups.
func (s *ReportService) Students(ctx context.Context, q dto.StudentReportQuery) (*dto.StudentReportResponse, error) {
	rows, err := s.store.StudentRows(ctx, models.StudentReportFilter{
		Class:        q.Class,
		AcademicYear: q.AcademicYear,
		Status:       models.StudentStatus(q.Status),
	})
	if err != nil {
		return nil, dataUnavailable(err, "failed to load student rows")
	}

	summary := dto.StudentReportSummary{
		TotalStudents: len(rows),
		ByClass:       map[string]int{},
		ByStatus:      map[string]int{},
	}
	students := make([]dto.StudentReportEntry, 0, len(rows))
	for _, row := range rows {
		summary.ByClass[row.Class]++
		summary.ByStatus[string(row.Status)]++

		entry := dto.StudentReportEntry{
			ID:           row.StudentCode,
			Name:         row.FullName,
			Class:        row.Class,
			AcademicYear: row.AcademicYear,
			Status:       string(row.Status),
			PresentDays:  row.PresentDays,
			AbsentDays:   row.AbsentDays,
		}
		if row.AverageGrade != nil {
			avg := formatFixed(*row.AverageGrade)
			entry.AverageGrade = &avg
		}
		students = append(students, entry)
	}

	return &dto.StudentReportResponse{Summary: summary, Students: students}, nil
}

// Attendance returns attendance roll-ups over the window, a per-class
// breakdown, and the low-attendance list. Active students without any
// attendance rows in the window are flagged at a zero rate.
func (s *ReportService) Attendance(ctx context.Context, window models.TimeWindow, class string) (*dto.AttendanceReportResponse, error) {
	rows, err := s.store.AttendanceRows(ctx, window, class)
	if err != nil {
		return nil, dataUnavailable(err, "failed to load attendance rows")
	}
	roster, err := s.store.ActiveStudents(ctx, class)
	if err != nil {
		return nil, dataUnavailable(err, "failed to load student roster")
	}

	summary := dto.AttendanceSummary{}
	type classCounts struct {
		Present int
		Absent  int
		Total   int
	}
	byClass := map[string]*classCounts{}
	type studentCounts struct {
		Present int
		Total   int
	}
	byStudent := map[string]*studentCounts{}

	for _, row := range rows {
		summary.Total++
		switch row.Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		case models.AttendanceLate:
			summary.Late++
		case models.AttendanceExcused:
			summary.Excused++
		}

		cc := byClass[row.Class]
		if cc == nil {
			cc = &classCounts{}
			byClass[row.Class] = cc
		}
		cc.Total++
		switch row.Status {
		case models.AttendancePresent:
			cc.Present++
		case models.AttendanceAbsent:
			cc.Absent++
		}

		sc := byStudent[row.StudentRef]
		if sc == nil {
			sc = &studentCounts{}
			byStudent[row.StudentRef] = sc
		}
		sc.Total++
		if row.Status == models.AttendancePresent {
			sc.Present++
		}
	}
	summary.AttendanceRate = formatRate(summary.Present, summary.Total)

	classes := make([]string, 0, len(byClass))
	for name := range byClass {
		classes = append(classes, name)
	}
	sort.Strings(classes)
	classBreakdown := make([]dto.ClassAttendance, 0, len(classes))
	for _, name := range classes {
		cc := byClass[name]
		classBreakdown = append(classBreakdown, dto.ClassAttendance{
			Class:   name,
			Present: cc.Present,
			Absent:  cc.Absent,
			Total:   cc.Total,
			Rate:    formatRate(cc.Present, cc.Total),
		})
	}

	// Rank over the roster so that students without any rows are still
	// listed, at a zero rate. Roster order breaks ties.
	entries := make([]rankedEntry, 0, len(roster))
	details := make(map[string]models.StudentRef, len(roster))
	for i, student := range roster {
		details[student.Ref] = student
		sc := byStudent[student.Ref]
		metric := 0.0
		if sc != nil {
			metric = rate(sc.Present, sc.Total)
		}
		entries = append(entries, rankedEntry{Key: student.Ref, Metric: metric, Order: i})
	}
	low := bottomEntries(entries, lowAttendanceThreshold, lowAttendanceLimit)
	lowStudents := make([]dto.LowAttendanceStudent, 0, len(low))
	for _, entry := range low {
		student := details[entry.Key]
		sc := byStudent[entry.Key]
		item := dto.LowAttendanceStudent{
			StudentID: student.StudentCode,
			Name:      student.FullName,
			Class:     student.Class,
			Rate:      formatFixed(entry.Metric),
		}
		if sc != nil {
			item.PresentDays = sc.Present
			item.TotalDays = sc.Total
		}
		lowStudents = append(lowStudents, item)
	}

	return &dto.AttendanceReportResponse{
		Summary:               summary,
		ByClass:               classBreakdown,
		LowAttendanceStudents: lowStudents,
	}, nil
}

// Grades returns per-subject roll-ups, the top performers, and students
// whose average falls below the attention threshold. Students without grade
// records never appear; an absent average is not an average of zero.
func (s *ReportService) Grades(ctx context.Context, filter models.GradeReportFilter) (*dto.GradeReportResponse, error) {
	rows, err := s.store.GradeRows(ctx, filter)
	if err != nil {
		return nil, dataUnavailable(err, "failed to load grade rows")
	}

	type subjectCounts struct {
		scoreAccumulator
		Students map[string]struct{}
	}
	bySubject := map[string]*subjectCounts{}
	byStudent := map[string]*scoreAccumulator{}
	studentOrder := map[string]int{}
	names := map[string]models.StudentRef{}

	for _, row := range rows {
		percent := row.Percent()

		sub := bySubject[row.Subject]
		if sub == nil {
			sub = &subjectCounts{Students: map[string]struct{}{}}
			bySubject[row.Subject] = sub
		}
		sub.add(percent)
		sub.Students[row.StudentRef] = struct{}{}

		acc := byStudent[row.StudentRef]
		if acc == nil {
			acc = &scoreAccumulator{}
			byStudent[row.StudentRef] = acc
			studentOrder[row.StudentRef] = len(studentOrder)
			names[row.StudentRef] = models.StudentRef{
				Ref:         row.StudentRef,
				StudentCode: row.StudentCode,
				FullName:    row.StudentName,
				Class:       row.Class,
			}
		}
		acc.add(percent)
	}

	type subjectAvg struct {
		Name    string
		Average float64
	}
	subjectAverages := make([]subjectAvg, 0, len(bySubject))
	for name, sub := range bySubject {
		subjectAverages = append(subjectAverages, subjectAvg{Name: name, Average: sub.average()})
	}
	sort.SliceStable(subjectAverages, func(i, j int) bool {
		if subjectAverages[i].Average == subjectAverages[j].Average {
			return subjectAverages[i].Name < subjectAverages[j].Name
		}
		return subjectAverages[i].Average > subjectAverages[j].Average
	})
	subjects := make([]dto.SubjectGrades, 0, len(subjectAverages))
	for _, sa := range subjectAverages {
		sub := bySubject[sa.Name]
		subjects = append(subjects, dto.SubjectGrades{
			Subject:      sa.Name,
			Average:      formatFixed(sa.Average),
			Highest:      formatFixed(sub.Highest),
			Lowest:       formatFixed(sub.Lowest),
			StudentCount: len(sub.Students),
		})
	}

	entries := make([]rankedEntry, 0, len(byStudent))
	for ref, acc := range byStudent {
		entries = append(entries, rankedEntry{Key: ref, Metric: acc.average(), Order: studentOrder[ref]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

	gradeEntry := func(entry rankedEntry) dto.StudentGradeEntry {
		student := names[entry.Key]
		return dto.StudentGradeEntry{
			StudentID: student.StudentCode,
			Name:      student.FullName,
			Class:     student.Class,
			Average:   formatFixed(entry.Metric),
		}
	}

	top := topEntries(entries, topPerformersLimit)
	topPerformers := make([]dto.StudentGradeEntry, 0, len(top))
	for _, entry := range top {
		topPerformers = append(topPerformers, gradeEntry(entry))
	}

	bottom := bottomEntries(entries, attentionThreshold, attentionLimit)
	needingAttention := make([]dto.StudentGradeEntry, 0, len(bottom))
	for _, entry := range bottom {
		needingAttention = append(needingAttention, gradeEntry(entry))
	}

	return &dto.GradeReportResponse{
		BySubject:        subjects,
		TopPerformers:    topPerformers,
		NeedingAttention: needingAttention,
	}, nil
}

// Payments returns the fee ledger summary grouped by settlement outcome,
// payment type, and, for settled payments, payment method. Only paid
// entries contribute to collected totals.
func (s *ReportService) Payments(ctx context.Context, window models.TimeWindow, paymentType string) (*dto.PaymentReportResponse, error) {
	rows, err := s.store.PaymentRows(ctx, window, paymentType)
	if err != nil {
		return nil, dataUnavailable(err, "failed to load payment rows")
	}

	summary := dto.PaymentSummary{TotalTransactions: len(rows)}
	type typeCounts struct {
		Collected float64
		Pending   float64
		Count     int
	}
	byType := map[string]*typeCounts{}
	byMethod := map[string]*amountAccumulator{}

	for _, row := range rows {
		switch row.Status {
		case models.PaymentPaid:
			summary.Collected += row.Amount
		case models.PaymentPending:
			summary.Pending += row.Amount
		case models.PaymentFailed:
			summary.Failed += row.Amount
		case models.PaymentOverdue:
			summary.Overdue += row.Amount
		}

		tc := byType[row.Type]
		if tc == nil {
			tc = &typeCounts{}
			byType[row.Type] = tc
		}
		tc.Count++
		switch row.Status {
		case models.PaymentPaid:
			tc.Collected += row.Amount
		case models.PaymentPending:
			tc.Pending += row.Amount
		}

		if row.Status == models.PaymentPaid {
			ma := byMethod[row.Method]
			if ma == nil {
				ma = &amountAccumulator{}
				byMethod[row.Method] = ma
			}
			ma.add(row.Amount)
		}
	}

	types := make([]string, 0, len(byType))
	for name := range byType {
		types = append(types, name)
	}
	sort.Strings(types)
	typeBreakdown := make([]dto.PaymentTypeBreakdown, 0, len(types))
	for _, name := range types {
		tc := byType[name]
		typeBreakdown = append(typeBreakdown, dto.PaymentTypeBreakdown{
			Type:      name,
			Collected: tc.Collected,
			Pending:   tc.Pending,
			Count:     tc.Count,
		})
	}

	methods := make([]string, 0, len(byMethod))
	for name := range byMethod {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	methodBreakdown := make([]dto.PaymentMethodBreakdown, 0, len(methods))
	for _, name := range methods {
		ma := byMethod[name]
		methodBreakdown = append(methodBreakdown, dto.PaymentMethodBreakdown{
			Method: name,
			Total:  ma.Total,
			Count:  ma.Count,
		})
	}

	return &dto.PaymentReportResponse{
		Summary:  summary,
		ByType:   typeBreakdown,
		ByMethod: methodBreakdown,
	}, nil
}

// Donors returns fundraising totals over completed donations, the top
// donors, a per-purpose breakdown, and the monthly trend. Donations without
// a donor count toward global totals but never toward per-donor rankings.
func (s *ReportService) Donors(ctx context.Context, window models.TimeWindow) (*dto.DonorReportResponse, error) {
	rows, err := s.store.DonationRows(ctx, window)
	if err != nil {
		return nil, dataUnavailable(err, "failed to load donation rows")
	}

	summary := dto.DonorSummary{TotalDonations: len(rows)}
	var amounts amountAccumulator

	type donorTotals struct {
		amountAccumulator
		Code  string
		Name  string
		Email string
	}
	byDonor := map[string]*donorTotals{}
	donorOrder := map[string]int{}
	byPurpose := map[string]*amountAccumulator{}
	byMonth := map[string]*amountAccumulator{}

	for _, row := range rows {
		amounts.add(row.Amount)

		if row.DonorRef != nil {
			dt := byDonor[*row.DonorRef]
			if dt == nil {
				dt = &donorTotals{}
				if row.DonorCode != nil {
					dt.Code = *row.DonorCode
				}
				if row.DonorName != nil {
					dt.Name = *row.DonorName
				}
				if row.DonorEmail != nil {
					dt.Email = *row.DonorEmail
				}
				byDonor[*row.DonorRef] = dt
				donorOrder[*row.DonorRef] = len(donorOrder)
			}
			dt.add(row.Amount)
		}

		purpose := row.Purpose
		if purpose == "" {
			purpose = "General"
		}
		pa := byPurpose[purpose]
		if pa == nil {
			pa = &amountAccumulator{}
			byPurpose[purpose] = pa
		}
		pa.add(row.Amount)

		month := row.DonationDate.UTC().Format("2006-01")
		ma := byMonth[month]
		if ma == nil {
			ma = &amountAccumulator{}
			byMonth[month] = ma
		}
		ma.add(row.Amount)
	}

	summary.TotalDonors = len(byDonor)
	summary.TotalDonated = amounts.Total
	summary.HighestDonation = amounts.Max
	if amounts.Count > 0 {
		summary.AverageDonation = formatFixed(amounts.Total / float64(amounts.Count))
	} else {
		summary.AverageDonation = formatFixed(0)
	}

	entries := make([]rankedEntry, 0, len(byDonor))
	for ref, dt := range byDonor {
		entries = append(entries, rankedEntry{Key: ref, Metric: dt.Total, Order: donorOrder[ref]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	top := topEntries(entries, topDonorsLimit)
	topDonors := make([]dto.TopDonor, 0, len(top))
	for _, entry := range top {
		dt := byDonor[entry.Key]
		topDonors = append(topDonors, dto.TopDonor{
			DonorID:       dt.Code,
			Name:          dt.Name,
			Email:         dt.Email,
			TotalDonated:  dt.Total,
			DonationCount: dt.Count,
		})
	}

	purposeBreakdown := make([]dto.PurposeBreakdown, 0, len(byPurpose))
	for name, pa := range byPurpose {
		purposeBreakdown = append(purposeBreakdown, dto.PurposeBreakdown{
			Purpose: name,
			Total:   pa.Total,
			Count:   pa.Count,
		})
	}
	sort.SliceStable(purposeBreakdown, func(i, j int) bool {
		if purposeBreakdown[i].Total == purposeBreakdown[j].Total {
			return purposeBreakdown[i].Purpose < purposeBreakdown[j].Purpose
		}
		return purposeBreakdown[i].Total > purposeBreakdown[j].Total
	})

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	trend := make([]dto.MonthlyDonations, 0, len(months))
	for _, month := range months {
		ma := byMonth[month]
		trend = append(trend, dto.MonthlyDonations{Month: month, Total: ma.Total, Count: ma.Count})
	}

	return &dto.DonorReportResponse{
		Summary:      summary,
		TopDonors:    topDonors,
		ByPurpose:    purposeBreakdown,
		MonthlyTrend: trend,
	}, nil
}

// InvalidateDashboard drops the cached dashboard snapshot. Called by the
// mutation services after writes that change the underlying totals.
func (s *ReportService) InvalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// dataUnavailable wraps a storage failure so that no partially computed
// report leaks to the caller.
func dataUnavailable(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, message)
}

package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики карт и расходов
	TotalCards           int64
	ActiveCards          int64
	DeactivatedCards     int64
	TotalExpenses        int64
	ChargesApplied       int64
	ChargesRejected      int64
	PaymentsApplied      int64
	PaymentsRejected     int64
	AdjustmentsApplied   int64
	AdjustmentsRejected  int64
	RefundsApplied       int64
	LastLedgerOperation  time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if failed {
		m.FailedRequests++
	}
}

// RecordCardOperation записывает метрики операции с картой
func (m *Metrics) RecordCardOperation(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch operation {
	case "register":
		m.TotalCards++
		m.ActiveCards++
	case "deactivate":
		m.ActiveCards--
		m.DeactivatedCards++
	}
}

// RecordLedgerOperation записывает метрики операции журнала баланса
func (m *Metrics) RecordLedgerOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastLedgerOperation = time.Now()

	switch operation {
	case "charge":
		if err != nil {
			m.ChargesRejected++
		} else {
			m.ChargesApplied++
			m.TotalExpenses++
		}
	case "payment":
		if err != nil {
			m.PaymentsRejected++
		} else {
			m.PaymentsApplied++
		}
	case "adjustment":
		if err != nil {
			m.AdjustmentsRejected++
		} else {
			m.AdjustmentsApplied++
		}
	case "refund":
		if err == nil {
			m.RefundsApplied++
			m.TotalExpenses--
		}
	}

	if err != nil {
		m.recordErrorLocked(err)
	}
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}

	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":    m.TotalRequests,
		"failed_requests":   m.FailedRequests,
		"average_latency":   m.AverageLatency.String(),
		"total_cards":       m.TotalCards,
		"active_cards":      m.ActiveCards,
		"deactivated_cards": m.DeactivatedCards,
		"total_expenses":    m.TotalExpenses,
		"charges_applied":   m.ChargesApplied,
		"charges_rejected":  m.ChargesRejected,
		"payments_applied":    m.PaymentsApplied,
		"payments_rejected":   m.PaymentsRejected,
		"adjustments_applied": m.AdjustmentsApplied,
		"refunds_applied":     m.RefundsApplied,
		"error_count":       m.ErrorCount,
		"last_error_time":   m.LastErrorTime,
		"error_types":       errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.TotalCards = 0
	m.ActiveCards = 0
	m.DeactivatedCards = 0
	m.TotalExpenses = 0
	m.ChargesApplied = 0
	m.ChargesRejected = 0
	m.PaymentsApplied = 0
	m.PaymentsRejected = 0
	m.AdjustmentsApplied = 0
	m.AdjustmentsRejected = 0
	m.RefundsApplied = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}

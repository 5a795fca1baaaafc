// Package metrics counts the operational events of the portal core that
// are not surfaced to the end user, most importantly data-loss reseeds.
package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns a private registry so several instances (tests, apps) do
// not collide. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	reseeds      *prometheus.CounterVec
	saves        prometheus.Counter
	saveFailures prometheus.Counter
	denied       *prometheus.CounterVec
	redirects    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		reseeds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_store_reseeds_total",
			Help: "Times the document was replaced by seed data.",
		}, []string{"reason"}),
		saves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_store_saves_total",
			Help: "Document saves that reached storage.",
		}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_store_save_failures_total",
			Help: "Document saves that storage rejected.",
		}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_denied_operations_total",
			Help: "Operations rejected for lack of authorization.",
		}, []string{"operation"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_route_redirects_total",
			Help: "Route resolutions that ended in a redirect.",
		}, []string{"route", "target"}),
	}
	m.Registry.MustRegister(m.reseeds, m.saves, m.saveFailures, m.denied, m.redirects)
	return m
}

func (m *Metrics) Reseeded(reason string) {
	if m != nil {
		m.reseeds.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Saved() {
	if m != nil {
		m.saves.Inc()
	}
}

func (m *Metrics) SaveFailed() {
	if m != nil {
		m.saveFailures.Inc()
	}
}

func (m *Metrics) Denied(operation string) {
	if m != nil {
		m.denied.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) Redirected(route, target string) {
	if m != nil {
		m.redirects.WithLabelValues(route, target).Inc()
	}
}

// Lines renders every non-zero counter as "name{labels} value", sorted.
func (m *Metrics) Lines() ([]string, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := f.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, name+" "+strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

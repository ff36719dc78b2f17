// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayforge/accrual/api/reactors"
	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/escrow"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/lvldb"
	"github.com/rayforge/accrual/metrics"
	"github.com/rayforge/accrual/store"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

var (
	alice = ident.Named("alice")
	poolA = ident.Named("pool-a")
)

func newServer(t *testing.T) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := store.New(db, 16)
	require.NoError(t, err)
	e := engine.New(s, engine.Options{})

	require.NoError(t, e.InitEscrow(0, poolA))
	require.NoError(t, e.InitPersonalPosition(0, poolA, alice))
	_, err = e.EscrowDeposit(0, poolA, alice, 100)
	require.NoError(t, err)
	require.NoError(t, e.EscrowUpdatePersonal(100, poolA, alice))

	require.NoError(t, e.InitGaugeConfig(0, 360))
	require.NoError(t, e.InitPoolGauge(0, poolA))
	require.NoError(t, e.InitReactorConfig(0, 0, 0))
	require.NoError(t, e.InitReactor(alice))
	_, err = e.ReactorDeposit(0, alice, 10)
	require.NoError(t, err)

	ts := httptest.NewServer(New(e, Options{AllowedOrigins: "*", EnableMetrics: true}))
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getJSON(t *testing.T, url string, v any) {
	body, code := httpGet(t, url)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, v))
}

func TestEscrowRoutes(t *testing.T) {
	ts := newServer(t)

	var tracker map[string]any
	getJSON(t, ts.URL+"/escrows/pool-a", &tracker)
	assert.Equal(t, poolA.String(), tracker["poolId"])
	assert.Equal(t, "1", tracker["index"])
	assert.Equal(t, float64(100), tracker["totalLpDeposited"])

	var pos map[string]any
	getJSON(t, ts.URL+"/escrows/"+poolA.String()+"/positions/alice", &pos)
	assert.Equal(t, "100", pos["earnedTimeUnits"])
	assert.Equal(t, alice.String(), pos["owner"])

	_, code := httpGet(t, ts.URL+"/escrows/pool-b")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecordRoutes(t *testing.T) {
	ts := newServer(t)

	var kinds []string
	getJSON(t, ts.URL+"/records", &kinds)
	assert.Equal(t, engine.Kinds(), kinds)

	var tracker map[string]any
	getJSON(t, ts.URL+"/records/time-tracker/"+escrow.TimeTrackerID(poolA).String(), &tracker)
	assert.Equal(t, poolA.String(), tracker["poolId"])

	_, code := httpGet(t, ts.URL+"/records/unknown/"+poolA.String())
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/records/time-tracker/zz")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/records/reactor/"+poolA.String())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGaugeAndReactorRoutes(t *testing.T) {
	ts := newServer(t)

	var cfg map[string]any
	getJSON(t, ts.URL+"/gauges/config", &cfg)
	assert.Equal(t, float64(360), cfg["rayEmissionPerDay"])

	var pools []map[string]any
	getJSON(t, ts.URL+"/gauges/pools", &pools)
	require.Len(t, pools, 1)
	assert.Equal(t, poolA.String(), pools[0]["poolId"])

	_, code := httpGet(t, ts.URL+"/gauges/pools/pool-a/voters/alice")
	assert.Equal(t, http.StatusNotFound, code)

	var votes reactors.Votes
	getJSON(t, ts.URL+"/reactors/alice/votes", &votes)
	assert.Equal(t, reactors.Votes{Power: 10, Locked: 0, Free: 10}, votes)

	var rc map[string]any
	getJSON(t, ts.URL+"/reactors/config", &rc)
	assert.Equal(t, float64(10), rc["totalRayDeposited"])
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newServer(t)

	httpGet(t, ts.URL+"/escrows/pool-a")
	httpGet(t, ts.URL+"/escrows/pool-b")
	httpGet(t, ts.URL+"/no/such/route")

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	codes := map[string]float64{}
	for _, m := range families["accrual_api_request_count"].GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		if labels["name"] == "escrows_get_tracker" {
			codes[labels["code"]] += m.GetCounter().GetValue()
		}
	}
	assert.GreaterOrEqual(t, codes["200"], float64(1))
	assert.GreaterOrEqual(t, codes["404"], float64(1))
}

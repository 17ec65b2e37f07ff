package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
	report_resty_inflight = "resty.inflight"
)

type instrumentResty struct {
	tel       API
	idcounter *uint64
	inflight  *int64
}

// InstrumentResty reports every request made by client, failed requests are
// reported as warnings since upstream sites going down is expected.
func InstrumentResty(client *resty.Client, tel API) {
	i := instrumentResty{
		tel:       tel,
		idcounter: new(uint64),
		inflight:  new(int64),
	}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id uint64
	// startTime does not need to rely on chrono because only the difference
	// between two readings matters.
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := atomic.AddUint64(i.idcounter, 1)
	req.SetContext(context.WithValue(req.Context(), reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	}))

	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)
	i.tel.ReportCount(report_resty_inflight, atomic.AddInt64(i.inflight, 1))
	return nil
}

// finish returns the request id and how long it took, ok is false when the
// request failed before onBeforeRequest ran.
func (i instrumentResty) finish(ctx context.Context) (id uint64, duration time.Duration, ok bool) {
	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return 0, 0, false
	}
	i.tel.ReportCount(report_resty_inflight, atomic.AddInt64(i.inflight, -1))
	return rc.id, time.Since(rc.startTime), true
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id, duration, ok := i.finish(res.Request.Context())
	if !ok {
		return nil
	}
	i.tel.ReportDebug(
		report_resty_response,
		id,
		duration.String(),
		res.Status(),
	)
	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	id, duration, _ := i.finish(req.Context())
	i.tel.ReportWarning(
		report_resty_response,
		err,
		id,
		req.Method,
		req.URL,
		duration.String(),
	)
}

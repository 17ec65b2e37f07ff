package sjcac

import "dailyreading-backend/lib/telemetry"

var tracer = telemetry.Tracer("dailyreading.lib.scrapers.sjcac")

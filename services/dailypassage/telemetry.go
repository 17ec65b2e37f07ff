package dailypassage

import "dailyreading-backend/lib/telemetry"

var tracer = telemetry.Tracer("dailyreading.services.dailypassage")

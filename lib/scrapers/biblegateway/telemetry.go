package biblegateway

import "dailyreading-backend/lib/telemetry"

var tracer = telemetry.Tracer("dailyreading.lib.scrapers.biblegateway")

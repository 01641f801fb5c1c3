package makegtfs

import "github.com/theoremus-urban-solutions/protofeed-to-gtfs/geom"

// TrafficSides answers which side of the street vehicles drive on — and
// therefore on which side of a path stops are expected — for a given IANA
// timezone. It is an immutable policy table, not derived logic.
type TrafficSides struct {
	leftByTimezone map[string]struct{}
}

// Side returns the traffic side for the given timezone: geom.SideLeft in
// left-hand-traffic countries, geom.SideRight everywhere else (including
// unknown timezones).
func (t TrafficSides) Side(timezone string) geom.Side {
	if _, ok := t.leftByTimezone[timezone]; ok {
		return geom.SideLeft
	}
	return geom.SideRight
}

// DefaultTrafficSides returns the built-in timezone table. Timezones of
// countries that drive on the left are listed; the rest of the world
// defaults to right.
func DefaultTrafficSides() TrafficSides {
	m := make(map[string]struct{}, len(leftHandTimezones))
	for _, tz := range leftHandTimezones {
		m[tz] = struct{}{}
	}
	return TrafficSides{leftByTimezone: m}
}

// Timezones of left-hand-traffic countries, grouped by country.
var leftHandTimezones = []string{
	// Australia
	"Australia/Adelaide", "Australia/Brisbane", "Australia/Broken_Hill",
	"Australia/Darwin", "Australia/Eucla", "Australia/Hobart",
	"Australia/Lindeman", "Australia/Lord_Howe", "Australia/Melbourne",
	"Australia/Perth", "Australia/Sydney", "Antarctica/Macquarie",
	// New Zealand
	"Pacific/Auckland", "Pacific/Chatham",
	// Japan
	"Asia/Tokyo",
	// India
	"Asia/Kolkata", "Asia/Calcutta",
	// Pakistan
	"Asia/Karachi",
	// Bangladesh
	"Asia/Dhaka",
	// Sri Lanka
	"Asia/Colombo",
	// Nepal
	"Asia/Kathmandu",
	// Bhutan
	"Asia/Thimphu",
	// Maldives
	"Indian/Maldives",
	// Thailand
	"Asia/Bangkok",
	// Malaysia
	"Asia/Kuala_Lumpur", "Asia/Kuching",
	// Singapore
	"Asia/Singapore",
	// Indonesia
	"Asia/Jakarta", "Asia/Pontianak", "Asia/Makassar", "Asia/Jayapura",
	// Brunei
	"Asia/Brunei",
	// East Timor
	"Asia/Dili",
	// Hong Kong and Macau
	"Asia/Hong_Kong", "Asia/Macau",
	// United Kingdom and Ireland
	"Europe/London", "Europe/Dublin",
	// Malta and Cyprus
	"Europe/Malta", "Asia/Nicosia", "Asia/Famagusta",
	// Kenya, Tanzania, Uganda
	"Africa/Nairobi", "Africa/Dar_es_Salaam", "Africa/Kampala",
	// Southern Africa
	"Africa/Johannesburg", "Africa/Gaborone", "Africa/Windhoek",
	"Africa/Harare", "Africa/Lusaka", "Africa/Blantyre", "Africa/Maputo",
	"Africa/Maseru", "Africa/Mbabane",
	// Indian Ocean
	"Indian/Mauritius", "Indian/Mahe",
	// Caribbean
	"America/Jamaica", "America/Barbados", "America/Nassau",
	"America/Antigua", "America/Dominica", "America/Grenada",
	"America/St_Kitts", "America/St_Lucia", "America/St_Vincent",
	"America/Port_of_Spain",
	// South America
	"America/Guyana", "America/Paramaribo",
	// Pacific
	"Pacific/Fiji", "Pacific/Port_Moresby", "Pacific/Bougainville",
	"Pacific/Guadalcanal", "Pacific/Apia", "Pacific/Tongatapu",
	"Pacific/Tarawa", "Pacific/Kanton", "Pacific/Kiritimati",
	"Pacific/Funafuti", "Pacific/Nauru", "Pacific/Niue",
}

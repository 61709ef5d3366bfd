package constants

const (
	SectionPrinting   = "printing"
	SectionLaser      = "laser"
	SectionPost       = "post"
	SectionPackaging  = "packaging"
	SectionOutsourced = "outsourced"
	SectionChangping  = "changping"
)

var Sections = map[string]bool{
	SectionPrinting:   true,
	SectionLaser:      true,
	SectionPost:       true,
	SectionPackaging:  true,
	SectionOutsourced: true,
	SectionChangping:  true,
}

// SectionLabels - подписи участков в отчётах
var SectionLabels = map[string]string{
	SectionPrinting:   "印刷",
	SectionLaser:      "雷切",
	SectionPost:       "後加工",
	SectionPackaging:  "包裝",
	SectionOutsourced: "委外",
	SectionChangping:  "常平",
}

// StationMapping - какие станции обслуживает категория станков
var StationMapping = map[string][]string{
	"印刷":  {"印刷站2F", "印刷站6F"},
	"雷切":  {"雷切站"},
	"後加工": {"後加工站"},
	"包裝":  {"包裝站"},
	"委外":  {"轉運站"},
	"常平":  {"印刷站(常平)", "雷切站(常平)", "後加工站(常平)", "包裝站(常平)"},
}

package constants

// Ключевые слова хранятся как данные, в исходном написании цеха.
var (
	// типы документов, на которые правила проверки не распространяются
	ExemptDocTypes = []string{
		"素材單", // material slip
		"包裝單", // packing slip
		"改單",  // order change
		"示意圖", // mockup
	}

	// для кодов на "C" тип документа обязан содержать одно из слов
	OutsourcedDocType   = "委外"
	SteadyStateDocType  = "常平"
	CPrefixDocTypes     = []string{OutsourcedDocType, SteadyStateDocType}
	AcrylicItemKeyword  = "壓克力"
	CPrefixedItemPrefix = "C"
)

// Станции и выбор множителя
var (
	PackingStation   = "包裝"
	PrintingStation  = "印刷"
	LaserCutStation  = "雷切"
	UnknownStation   = "未知站點"
	PlateFirstByName = []string{PrintingStation, LaserCutStation}
)

package cityresolver

// DefaultCities lists the canonical names shipped with the resolver.
var DefaultCities = []string{
	"Москва",
	"Санкт-Петербург",
	"Новосибирск",
	"Екатеринбург",
	"Казань",
	"Нижний Новгород",
	"Челябинск",
	"Самара",
	"Омск",
	"Ростов-на-Дону",
	"Уфа",
	"Красноярск",
	"Воронеж",
	"Пермь",
	"Волгоград",
	"Краснодар",
	"Саратов",
	"Тюмень",
	"Тольятти",
	"Ижевск",
	"Барнаул",
	"Ульяновск",
	"Иркутск",
	"Хабаровск",
	"Ярославль",
	"Владивосток",
	"Махачкала",
	"Томск",
	"Оренбург",
	"Кемерово",
	"Новокузнецк",
	"Рязань",
	"Астрахань",
	"Набережные Челны",
	"Пенза",
	"Липецк",
	"Киров",
	"Чебоксары",
	"Калининград",
	"Тула",
	"Курск",
	"Ставрополь",
	"Сочи",
	"Тверь",
	"Магнитогорск",
	"Иваново",
	"Брянск",
	"Белгород",
	"Сургут",
	"Владимир",
	"Архангельск",
	"Мурманск",
	"Севастополь",
	"Симферополь",
	"Якутск",
	"Петрозаводск",
	"Великий Новгород",
	"Псков",
	"Смоленск",
	"Калуга",
}

// DefaultAliases is scanned top to bottom, so multi-word keys precede the keys they contain.
// Keys are written in message form: lowercase, no periods, hyphens as spaces. Catalog
// files may keep the punctuation; the alias scan normalizes keys the same way.
// Names that double as common first names or surnames (Владимир, Киров) get no bare alias.
var DefaultAliases = []Alias{
	// Москва
	{"москва", "Москва"},
	{"москве", "Москва"},
	{"москву", "Москва"},
	{"москвы", "Москва"},
	{"москвой", "Москва"},
	{"мск", "Москва"},
	{"масква", "Москва"},
	{"moscow", "Москва"},
	{"msk", "Москва"},

	// Санкт-Петербург
	{"санкт петербург", "Санкт-Петербург"},
	{"санкт петербурге", "Санкт-Петербург"},
	{"санкт петербурга", "Санкт-Петербург"},
	{"saint petersburg", "Санкт-Петербург"},
	{"st petersburg", "Санкт-Петербург"},
	{"петербург", "Санкт-Петербург"},
	{"петербурге", "Санкт-Петербург"},
	{"петербурга", "Санкт-Петербург"},
	{"питер", "Санкт-Петербург"},
	{"питере", "Санкт-Петербург"},
	{"питера", "Санкт-Петербург"},
	{"питеру", "Санкт-Петербург"},
	{"спб", "Санкт-Петербург"},
	{"spb", "Санкт-Петербург"},
	{"ленинград", "Санкт-Петербург"},

	// Новосибирск
	{"новосибирск", "Новосибирск"},
	{"новосибирске", "Новосибирск"},
	{"новосибирска", "Новосибирск"},
	{"новосиб", "Новосибирск"},
	{"новосибе", "Новосибирск"},
	{"нск", "Новосибирск"},
	{"novosibirsk", "Новосибирск"},

	// Екатеринбург
	{"екатеринбург", "Екатеринбург"},
	{"екатеринбурге", "Екатеринбург"},
	{"екатеринбурга", "Екатеринбург"},
	{"екб", "Екатеринбург"},
	{"екат", "Екатеринбург"},
	{"ебург", "Екатеринбург"},
	{"yekaterinburg", "Екатеринбург"},

	// Казань
	{"казань", "Казань"},
	{"kazan", "Казань"},

	// Нижний Новгород
	{"нижний новгород", "Нижний Новгород"},
	{"нижнем новгороде", "Нижний Новгород"},
	{"нижнего новгорода", "Нижний Новгород"},

	{"челябинск", "Челябинск"},
	{"челябинске", "Челябинск"},
	{"челяба", "Челябинск"},
	{"самара", "Самара"},
	{"самаре", "Самара"},
	{"омск", "Омск"},
	{"омске", "Омск"},

	// Ростов-на-Дону
	{"ростов на дону", "Ростов-на-Дону"},
	{"ростове на дону", "Ростов-на-Дону"},
	{"ростов", "Ростов-на-Дону"},
	{"ростове", "Ростов-на-Дону"},
	{"рнд", "Ростов-на-Дону"},

	{"уфа", "Уфа"},
	{"уфе", "Уфа"},
	{"красноярск", "Красноярск"},
	{"красноярске", "Красноярск"},
	{"воронеж", "Воронеж"},
	{"воронеже", "Воронеж"},
	{"пермь", "Пермь"},
	{"перми", "Пермь"},
	{"волгоград", "Волгоград"},
	{"волгограде", "Волгоград"},
	{"краснодар", "Краснодар"},
	{"краснодаре", "Краснодар"},
	{"саратов", "Саратов"},
	{"саратове", "Саратов"},
	{"тюмень", "Тюмень"},
	{"тюмени", "Тюмень"},
	{"тольятти", "Тольятти"},
	{"ижевск", "Ижевск"},
	{"ижевске", "Ижевск"},
	{"барнаул", "Барнаул"},
	{"барнауле", "Барнаул"},
	{"ульяновск", "Ульяновск"},
	{"ульяновске", "Ульяновск"},
	{"иркутск", "Иркутск"},
	{"иркутске", "Иркутск"},
	{"хабаровск", "Хабаровск"},
	{"хабаровске", "Хабаровск"},
	{"хабар", "Хабаровск"},
	{"ярославль", "Ярославль"},
	{"ярославле", "Ярославль"},
	{"владивосток", "Владивосток"},
	{"владивостоке", "Владивосток"},
	{"владик", "Владивосток"},
	{"махачкала", "Махачкала"},
	{"махачкале", "Махачкала"},
	{"томск", "Томск"},
	{"томске", "Томск"},
	{"оренбург", "Оренбург"},
	{"оренбурге", "Оренбург"},
	{"кемерово", "Кемерово"},
	{"новокузнецк", "Новокузнецк"},
	{"новокузнецке", "Новокузнецк"},
	{"рязань", "Рязань"},
	{"рязани", "Рязань"},
	{"астрахань", "Астрахань"},
	{"астрахани", "Астрахань"},

	// Набережные Челны
	{"набережные челны", "Набережные Челны"},
	{"набережных челнах", "Набережные Челны"},
	{"наб челны", "Набережные Челны"},
	{"челны", "Набережные Челны"},

	{"пенза", "Пенза"},
	{"пензе", "Пенза"},
	{"липецк", "Липецк"},
	{"липецке", "Липецк"},
	{"чебоксары", "Чебоксары"},
	{"чебоксарах", "Чебоксары"},
	{"калининград", "Калининград"},
	{"калининграде", "Калининград"},
	{"тула", "Тула"},
	{"туле", "Тула"},
	{"курск", "Курск"},
	{"курске", "Курск"},
	{"ставрополь", "Ставрополь"},
	{"ставрополе", "Ставрополь"},
	{"сочи", "Сочи"},
	{"тверь", "Тверь"},
	{"твери", "Тверь"},
	{"магнитогорск", "Магнитогорск"},
	{"магнитогорске", "Магнитогорск"},
	{"иваново", "Иваново"},
	{"брянск", "Брянск"},
	{"брянске", "Брянск"},
	{"белгород", "Белгород"},
	{"белгороде", "Белгород"},
	{"сургут", "Сургут"},
	{"сургуте", "Сургут"},
	{"архангельск", "Архангельск"},
	{"архангельске", "Архангельск"},
	{"мурманск", "Мурманск"},
	{"мурманске", "Мурманск"},
	{"севастополь", "Севастополь"},
	{"севастополе", "Севастополь"},
	{"севас", "Севастополь"},
	{"симферополь", "Симферополь"},
	{"симферополе", "Симферополь"},
	{"симф", "Симферополь"},
	{"якутск", "Якутск"},
	{"якутске", "Якутск"},
	{"петрозаводск", "Петрозаводск"},
	{"петрозаводске", "Петрозаводск"},
	{"великий новгород", "Великий Новгород"},
	{"великом новгороде", "Великий Новгород"},
	{"псков", "Псков"},
	{"пскове", "Псков"},
	{"смоленск", "Смоленск"},
	{"смоленске", "Смоленск"},
	{"калуга", "Калуга"},
	{"калуге", "Калуга"},
}

// DefaultCatalog builds the catalog shipped with the resolver.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(DefaultCities, DefaultAliases)
}

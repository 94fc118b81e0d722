package country

import "strings"

// ISO 3166-1 reference table. Kept as data, not fetched: the assignment of
// codes changes rarely and the pipeline must not depend on a network lookup
// at ingestion time.
type record struct {
	alpha3  string
	alpha2  string
	numeric string
	name    string
}

var records = []record{
	{"AFG", "AF", "004", "Afghanistan"},
	{"ALB", "AL", "008", "Albania"},
	{"DZA", "DZ", "012", "Algeria"},
	{"AND", "AD", "020", "Andorra"},
	{"AGO", "AO", "024", "Angola"},
	{"ATG", "AG", "028", "Antigua and Barbuda"},
	{"ARG", "AR", "032", "Argentina"},
	{"ARM", "AM", "051", "Armenia"},
	{"AUS", "AU", "036", "Australia"},
	{"AUT", "AT", "040", "Austria"},
	{"AZE", "AZ", "031", "Azerbaijan"},
	{"BHS", "BS", "044", "Bahamas"},
	{"BHR", "BH", "048", "Bahrain"},
	{"BGD", "BD", "050", "Bangladesh"},
	{"BRB", "BB", "052", "Barbados"},
	{"BLR", "BY", "112", "Belarus"},
	{"BEL", "BE", "056", "Belgium"},
	{"BLZ", "BZ", "084", "Belize"},
	{"BEN", "BJ", "204", "Benin"},
	{"BTN", "BT", "064", "Bhutan"},
	{"BOL", "BO", "068", "Bolivia"},
	{"BIH", "BA", "070", "Bosnia and Herzegovina"},
	{"BWA", "BW", "072", "Botswana"},
	{"BRA", "BR", "076", "Brazil"},
	{"BRN", "BN", "096", "Brunei Darussalam"},
	{"BGR", "BG", "100", "Bulgaria"},
	{"BFA", "BF", "854", "Burkina Faso"},
	{"BDI", "BI", "108", "Burundi"},
	{"CPV", "CV", "132", "Cabo Verde"},
	{"KHM", "KH", "116", "Cambodia"},
	{"CMR", "CM", "120", "Cameroon"},
	{"CAN", "CA", "124", "Canada"},
	{"CAF", "CF", "140", "Central African Republic"},
	{"TCD", "TD", "148", "Chad"},
	{"CHL", "CL", "152", "Chile"},
	{"CHN", "CN", "156", "China"},
	{"COL", "CO", "170", "Colombia"},
	{"COM", "KM", "174", "Comoros"},
	{"COG", "CG", "178", "Congo"},
	{"COD", "CD", "180", "Congo, Democratic Republic of the"},
	{"CRI", "CR", "188", "Costa Rica"},
	{"CIV", "CI", "384", "Cote d'Ivoire"},
	{"HRV", "HR", "191", "Croatia"},
	{"CUB", "CU", "192", "Cuba"},
	{"CYP", "CY", "196", "Cyprus"},
	{"CZE", "CZ", "203", "Czechia"},
	{"DNK", "DK", "208", "Denmark"},
	{"DJI", "DJ", "262", "Djibouti"},
	{"DMA", "DM", "212", "Dominica"},
	{"DOM", "DO", "214", "Dominican Republic"},
	{"ECU", "EC", "218", "Ecuador"},
	{"EGY", "EG", "818", "Egypt"},
	{"SLV", "SV", "222", "El Salvador"},
	{"GNQ", "GQ", "226", "Equatorial Guinea"},
	{"ERI", "ER", "232", "Eritrea"},
	{"EST", "EE", "233", "Estonia"},
	{"SWZ", "SZ", "748", "Eswatini"},
	{"ETH", "ET", "231", "Ethiopia"},
	{"FJI", "FJ", "242", "Fiji"},
	{"FIN", "FI", "246", "Finland"},
	{"FRA", "FR", "250", "France"},
	{"GAB", "GA", "266", "Gabon"},
	{"GMB", "GM", "270", "Gambia"},
	{"GEO", "GE", "268", "Georgia"},
	{"DEU", "DE", "276", "Germany"},
	{"GHA", "GH", "288", "Ghana"},
	{"GRC", "GR", "300", "Greece"},
	{"GRD", "GD", "308", "Grenada"},
	{"GTM", "GT", "320", "Guatemala"},
	{"GIN", "GN", "324", "Guinea"},
	{"GNB", "GW", "624", "Guinea-Bissau"},
	{"GUY", "GY", "328", "Guyana"},
	{"HTI", "HT", "332", "Haiti"},
	{"HND", "HN", "340", "Honduras"},
	{"HKG", "HK", "344", "Hong Kong"},
	{"HUN", "HU", "348", "Hungary"},
	{"ISL", "IS", "352", "Iceland"},
	{"IND", "IN", "356", "India"},
	{"IDN", "ID", "360", "Indonesia"},
	{"IRN", "IR", "364", "Iran"},
	{"IRQ", "IQ", "368", "Iraq"},
	{"IRL", "IE", "372", "Ireland"},
	{"ISR", "IL", "376", "Israel"},
	{"ITA", "IT", "380", "Italy"},
	{"JAM", "JM", "388", "Jamaica"},
	{"JPN", "JP", "392", "Japan"},
	{"JOR", "JO", "400", "Jordan"},
	{"KAZ", "KZ", "398", "Kazakhstan"},
	{"KEN", "KE", "404", "Kenya"},
	{"KIR", "KI", "296", "Kiribati"},
	{"PRK", "KP", "408", "Korea, Democratic People's Republic of"},
	{"KOR", "KR", "410", "Korea, Republic of"},
	{"KWT", "KW", "414", "Kuwait"},
	{"KGZ", "KG", "417", "Kyrgyzstan"},
	{"LAO", "LA", "418", "Lao People's Democratic Republic"},
	{"LVA", "LV", "428", "Latvia"},
	{"LBN", "LB", "422", "Lebanon"},
	{"LSO", "LS", "426", "Lesotho"},
	{"LBR", "LR", "430", "Liberia"},
	{"LBY", "LY", "434", "Libya"},
	{"LIE", "LI", "438", "Liechtenstein"},
	{"LTU", "LT", "440", "Lithuania"},
	{"LUX", "LU", "442", "Luxembourg"},
	{"MAC", "MO", "446", "Macao"},
	{"MDG", "MG", "450", "Madagascar"},
	{"MWI", "MW", "454", "Malawi"},
	{"MYS", "MY", "458", "Malaysia"},
	{"MDV", "MV", "462", "Maldives"},
	{"MLI", "ML", "466", "Mali"},
	{"MLT", "MT", "470", "Malta"},
	{"MHL", "MH", "584", "Marshall Islands"},
	{"MRT", "MR", "478", "Mauritania"},
	{"MUS", "MU", "480", "Mauritius"},
	{"MEX", "MX", "484", "Mexico"},
	{"FSM", "FM", "583", "Micronesia"},
	{"MDA", "MD", "498", "Moldova"},
	{"MCO", "MC", "492", "Monaco"},
	{"MNG", "MN", "496", "Mongolia"},
	{"MNE", "ME", "499", "Montenegro"},
	{"MAR", "MA", "504", "Morocco"},
	{"MOZ", "MZ", "508", "Mozambique"},
	{"MMR", "MM", "104", "Myanmar"},
	{"NAM", "NA", "516", "Namibia"},
	{"NRU", "NR", "520", "Nauru"},
	{"NPL", "NP", "524", "Nepal"},
	{"NLD", "NL", "528", "Netherlands"},
	{"NZL", "NZ", "554", "New Zealand"},
	{"NIC", "NI", "558", "Nicaragua"},
	{"NER", "NE", "562", "Niger"},
	{"NGA", "NG", "566", "Nigeria"},
	{"MKD", "MK", "807", "North Macedonia"},
	{"NOR", "NO", "578", "Norway"},
	{"OMN", "OM", "512", "Oman"},
	{"PAK", "PK", "586", "Pakistan"},
	{"PLW", "PW", "585", "Palau"},
	{"PSE", "PS", "275", "Palestine, State of"},
	{"PAN", "PA", "591", "Panama"},
	{"PNG", "PG", "598", "Papua New Guinea"},
	{"PRY", "PY", "600", "Paraguay"},
	{"PER", "PE", "604", "Peru"},
	{"PHL", "PH", "608", "Philippines"},
	{"POL", "PL", "616", "Poland"},
	{"PRT", "PT", "620", "Portugal"},
	{"QAT", "QA", "634", "Qatar"},
	{"ROU", "RO", "642", "Romania"},
	{"RUS", "RU", "643", "Russian Federation"},
	{"RWA", "RW", "646", "Rwanda"},
	{"KNA", "KN", "659", "Saint Kitts and Nevis"},
	{"LCA", "LC", "662", "Saint Lucia"},
	{"VCT", "VC", "670", "Saint Vincent and the Grenadines"},
	{"WSM", "WS", "882", "Samoa"},
	{"SMR", "SM", "674", "San Marino"},
	{"STP", "ST", "678", "Sao Tome and Principe"},
	{"SAU", "SA", "682", "Saudi Arabia"},
	{"SEN", "SN", "686", "Senegal"},
	{"SRB", "RS", "688", "Serbia"},
	{"SYC", "SC", "690", "Seychelles"},
	{"SLE", "SL", "694", "Sierra Leone"},
	{"SGP", "SG", "702", "Singapore"},
	{"SVK", "SK", "703", "Slovakia"},
	{"SVN", "SI", "705", "Slovenia"},
	{"SLB", "SB", "090", "Solomon Islands"},
	{"SOM", "SO", "706", "Somalia"},
	{"ZAF", "ZA", "710", "South Africa"},
	{"SSD", "SS", "728", "South Sudan"},
	{"ESP", "ES", "724", "Spain"},
	{"LKA", "LK", "144", "Sri Lanka"},
	{"SDN", "SD", "729", "Sudan"},
	{"SUR", "SR", "740", "Suriname"},
	{"SWE", "SE", "752", "Sweden"},
	{"CHE", "CH", "756", "Switzerland"},
	{"SYR", "SY", "760", "Syrian Arab Republic"},
	{"TWN", "TW", "158", "Taiwan"},
	{"TJK", "TJ", "762", "Tajikistan"},
	{"TZA", "TZ", "834", "Tanzania"},
	{"THA", "TH", "764", "Thailand"},
	{"TLS", "TL", "626", "Timor-Leste"},
	{"TGO", "TG", "768", "Togo"},
	{"TON", "TO", "776", "Tonga"},
	{"TTO", "TT", "780", "Trinidad and Tobago"},
	{"TUN", "TN", "788", "Tunisia"},
	{"TUR", "TR", "792", "Turkiye"},
	{"TKM", "TM", "795", "Turkmenistan"},
	{"TUV", "TV", "798", "Tuvalu"},
	{"UGA", "UG", "800", "Uganda"},
	{"UKR", "UA", "804", "Ukraine"},
	{"ARE", "AE", "784", "United Arab Emirates"},
	{"GBR", "GB", "826", "United Kingdom"},
	{"USA", "US", "840", "United States"},
	{"URY", "UY", "858", "Uruguay"},
	{"UZB", "UZ", "860", "Uzbekistan"},
	{"VUT", "VU", "548", "Vanuatu"},
	{"VEN", "VE", "862", "Venezuela"},
	{"VNM", "VN", "704", "Viet Nam"},
	{"YEM", "YE", "887", "Yemen"},
	{"ZMB", "ZM", "894", "Zambia"},
	{"ZWE", "ZW", "716", "Zimbabwe"},
}

// Free-text spellings seen in curated tables and legacy snapshots that
// differ from the ISO short name.
var aliases = map[string]string{
	"czech republic":                       "CZE",
	"south korea":                          "KOR",
	"korea":                                "KOR",
	"north korea":                          "PRK",
	"russia":                               "RUS",
	"vietnam":                              "VNM",
	"turkey":                               "TUR",
	"united states of america":             "USA",
	"great britain":                        "GBR",
	"uae":                                  "ARE",
	"ivory coast":                          "CIV",
	"cote d'ivoire":                        "CIV",
	"bolivia, plurinational state of":      "BOL",
	"congo, the democratic republic of the": "COD",
	"dr congo":                             "COD",
	"iran, islamic republic of":            "IRN",
	"laos":                                 "LAO",
	"moldova, republic of":                 "MDA",
	"macedonia":                            "MKD",
	"swaziland":                            "SWZ",
	"syria":                                "SYR",
	"tanzania, united republic of":         "TZA",
	"venezuela, bolivarian republic of":    "VEN",
	"brunei":                               "BRN",
	"cape verde":                           "CPV",
	"burma":                                "MMR",
	"east timor":                           "TLS",
}

var (
	byAlpha3  = make(map[string]record, len(records))
	byAlpha2  = make(map[string]string, len(records))
	byNumeric = make(map[string]string, len(records))
	byName    = make(map[string]string, len(records)+len(aliases))
)

func init() {
	for _, r := range records {
		byAlpha3[r.alpha3] = r
		byAlpha2[r.alpha2] = r.alpha3
		byNumeric[r.numeric] = r.alpha3
		byName[strings.ToLower(r.name)] = r.alpha3
	}
	for name, iso3 := range aliases {
		byName[name] = iso3
	}
}

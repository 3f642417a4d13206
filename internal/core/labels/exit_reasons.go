package labels

import "sort"

// exitReasons are the SGK termination codes (işten çıkış nedeni).
var exitReasons = map[string]string{
	"01": "Deneme süreli iş sözl. işverence feshi",
	"02": "Deneme süreli iş sözl. işçi tarafından feshi",
	"03": "Belirsiz süreli iş sözl. işçi tarafından feshi (istifa)",
	"04": "Belirsiz süreli iş sözl. işveren tarafından haklı sebep bildirilmeden feshi",
	"05": "Belirli süreli iş sözleşmesinin sona ermesi",
	"08": "Emeklilik (yaşlılık) veya toptan ödeme",
	"09": "Malulen emeklilik",
	"10": "Ölüm",
	"11": "İş kazası sonucu ölüm",
	"12": "Askerlik",
	"13": "Kadın işçinin evlenmesi",
	"14": "Emeklilik için yaş dışında diğer şartların tamamlanması",
	"15": "Toplu işçi çıkarma",
	"16": "Sözleşme sona ermeden sigortalının aynı işverene ait diğer işyerine nakli",
	"17": "İşyerinin kapanması",
	"18": "İşin sona ermesi",
	"19": "Mevsim bitimi",
	"20": "Kampanya bitimi",
	"22": "Diğer nedenler",
	"25": "İşçi tarafından zorunlu nedenle fesih",
	"26": "Disiplin kurulu kararı ile fesih",
	"27": "İşveren tarafından zorunlu nedenle fesih",
	"28": "İşveren tarafından sendikal nedenle fesih",
	"29": "İşveren tarafından sağlık nedeniyle fesih",
	"30": "Vize süresinin bitimi",
	"31": "Borçlar kanunu, bağımsız çalışanlar",
	"32": "4046 sayılı kanunun 21. maddesine göre özelleştirme",
	"33": "Gazeteci tarafından sözleşmenin feshi",
	"34": "İşyerinin devri",
	"36": "KHK ile işten çıkarma",
	"37": "KHK ile işe iade",
	"43": "Gazeteci tarafından fesih",
	"44": "İşveren tarafından 4857/25-II ile fesih",
	"45": "İşçi tarafından 4857/24-II ile fesih",
	"46": "Belirli süreli iş sözleşmesinin işveren tarafından feshi",
	"47": "Belirli süreli iş sözleşmesinin işçi tarafından feshi",
	"48": "Toplu işçi çıkarma",
	"49": "Fazla çalışmaya onay vermeme nedeniyle fesih",
	"50": "İşyeri devri nedeniyle fesih",
}

// ExitReasonLabel describes an exit reason code. Unknown codes render as
// "Kod: <code>" and a missing code as "Bilinmeyen".
func ExitReasonLabel(code string) string {
	if code == "" {
		return UnknownLabel
	}
	if label, ok := exitReasons[code]; ok {
		return label
	}
	return "Kod: " + code
}

// ExitReasonCodes returns every known code in ascending order.
func ExitReasonCodes() []string {
	codes := make([]string, 0, len(exitReasons))
	for code := range exitReasons {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

package classification

import "github.com/Veraticus/the-spice-must-learn/internal/model"

// Default category names used by the built-in rules.
const (
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills & Utilities"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryEducation     = "Education"
)

// DefaultRules returns the built-in keyword rules in evaluation order.
// Keywords are regular expression fragments matched as whole tokens.
// Order matters: "grab food" must reach dining before "grab" reaches
// transport, and streaming services are billed before they are entertainment.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "dining",
			Category: CategoryFood,
			Keywords: []string{
				`grab\s*food`, `shopee\s*food`, `baemin`, `gojek\s*food`, `go\s*food`,
				`circle\s*k`, `ministop`, `family\s*mart`, `7-?eleven`,
				`highlands?`, `starbucks`, `phuc\s*long`, `the\s*coffee\s*house`, `katinat`,
				`trà\s*sữa`, `tra\s*sua`, `cà\s*phê`, `ca\s*phe`, `coffee`, `cafe`,
				`nhà\s*hàng`, `nha\s*hang`, `quán\s*ăn`, `quan\s*an`, `restaurant`,
				`cơm`, `bún`, `phở`, `pho`, `bánh\s*mì`, `banh\s*mi`,
				`pizza`, `burger`, `kfc`, `lotteria`, `jollibee`, `mcdonald'?s?`,
			},
		},
		{
			Name:     "transport",
			Category: CategoryTransport,
			Keywords: []string{
				`grab`, `be\s*(?:bike|car)`, `begroup`, `gojek`, `xanh\s*sm`, `taxi`, `uber`,
				`xăng`, `xang`, `petrolimex`, `pvoil`, `shell`, `esso`, `caltex`,
				`vé\s*xe`, `ve\s*xe`, `vexere`, `vietjet`, `vietnam\s*airlines`, `bamboo\s*airways`, `pacific\s*airlines`,
				`parking`, `gửi\s*xe`,
			},
		},
		{
			Name:     "shopping",
			Category: CategoryShopping,
			Keywords: []string{
				`shopee`, `lazada`, `tiki`, `sendo`, `amazon`,
				`thegioididong`, `the\s*gioi\s*di\s*dong`, `dienmayxanh`, `dien\s*may\s*xanh`, `fpt\s*shop`, `cellphones?`,
				`nguyen\s*kim`, `big\s*c`, `aeon`, `lotte\s*mart`, `vinmart`, `winmart`, `co\.?op\s*mart`, `coopmart`, `bach\s*hoa\s*xanh`,
				`uniqlo`, `zara`,
			},
		},
		{
			Name:     "bills",
			Category: CategoryBills,
			Keywords: []string{
				`tiền\s*điện`, `tien\s*dien`, `điện\s*lực`, `dien\s*luc`, `evn\w*`,
				`tiền\s*nước`, `tien\s*nuoc`, `cấp\s*nước`, `cap\s*nuoc`, `sawaco`,
				`internet`, `wifi`, `viettel`, `vinaphone`, `mobifone`, `vnpt`, `fpt\s*telecom`, `sctv`, `vtvcab`,
				`truyền\s*hình`, `netflix`, `spotify`, `youtube\s*premium`, `icloud`, `apple\.com`, `google\s*one`,
			},
		},
		{
			Name:     "entertainment",
			Category: CategoryEntertainment,
			Keywords: []string{
				`cgv`, `lotte\s*cinema`, `galaxy\s*cinema`, `bhd`, `beta\s*cinemas?`,
				`steam`, `playstation`, `xbox`, `nintendo`, `game`, `tiktok`,
				`karaoke`, `massage`, `spa`, `concert`, `ticketbox`,
			},
		},
		{
			Name:     "health",
			Category: CategoryHealth,
			Keywords: []string{
				`bệnh\s*viện`, `benh\s*vien`, `phòng\s*khám`, `phong\s*kham`, `nha\s*khoa`, `hospital`, `clinic`, `dental`,
				`thuốc`, `nha\s*thuoc`, `pharmacy`, `pharmacity`, `long\s*ch[aâ]u`, `an\s*khang`, `medicare`,
				`bảo\s*hiểm`, `bao\s*hiem`, `insurance`, `gym`, `fitness`, `yoga`,
			},
		},
		{
			Name:     "education",
			Category: CategoryEducation,
			Keywords: []string{
				`học\s*phí`, `hoc\s*phi`, `tuition`, `trường`, `school`, `university`, `đại\s*học`, `dai\s*hoc`, `cao\s*đẳng`,
				`khóa\s*học`, `khoa\s*hoc`, `course`, `udemy`, `coursera`, `english`, `ielts`, `toeic`,
				`sách`, `books?`, `fahasa`,
			},
		},
		{
			Name:     "income",
			Category: model.CategoryIncome,
			Keywords: []string{
				`lương`, `luong`, `salary`, `payroll`, `thưởng`, `bonus`,
				`hoàn\s*tiền`, `hoan\s*tien`, `refund`, `cashback`, `nhận\s*tiền`, `nhan\s*tien`, `receive`,
			},
		},
		{
			Name:     "transfer",
			Category: model.CategoryTransfer,
			Keywords: []string{
				`chuyển\s*tiền`, `chuyen\s*tien`, `chuyển\s*khoản`, `chuyen\s*khoan`, `transfer`, `ck`,
			},
		},
	}
}

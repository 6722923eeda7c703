package catalog

import "github.com/partyhost/server/internal/models"

// marblePenaltyCategories seeds the catalog-level penalty fallback used
// when voting produces fewer than 26 user-submitted penalties.
// Deliberately short of 26 rows so the cascade to the game package's
// hard-coded default list stays reachable and testable.
var marblePenaltyCategories = []Category{
	{CategoryID: "marble-penalties", Game: models.GameMarble, Name: "Penalties", Words: []string{
		"노래 한 곡 부르기", "애교 부리기", "러브샷 하기", "춤 추기", "성대모사 하기",
		"셀카 찍기", "벌칙자에게 칭찬하기", "오른손으로 왼쪽 어깨 두드리기", "3초간 침묵하기", "웃긴 표정 짓기",
		"손으로 하트 만들기", "박수 세 번 치기", "마지막에 마신 사람 따라 마시기", "엄지 척 자세로 건배", "즉석 랩하기",
	}},
}

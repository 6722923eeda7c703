package marble

// fallbackPenalties is the hard-coded default list used when neither
// user submissions nor the catalog's penalty category produce 26 rows.
// Kept at 26 or more entries (27 today) so the board's penalty cells never run dry.
var fallbackPenalties = []string{
	"노래 한 곡 부르기", "애교 부리기", "러브샷 하기", "춤 추기", "성대모사 하기",
	"셀카 찍기", "벌칙자에게 칭찬하기", "오른손으로 왼쪽 어깨 두드리기", "3초간 침묵하기", "웃긴 표정 짓기",
	"손으로 하트 만들기", "박수 세 번 치기", "마지막에 마신 사람 따라 마시기", "엄지 척 자세로 건배", "즉석 랩하기",
	"윙크하기", "옆사람 칭찬 3가지 말하기", "이름으로 삼행시 짓기", "동물 성대모사 하기", "1분간 팔 들고 있기",
	"반대 손으로 글씨 쓰기", "아무 노래나 후렴 부르기", "이상한 춤 추기", "눈 감고 자기소개 하기", "애국가 한 소절 부르기",
	"상대방 흉내내기", "벌칙자에게 질문 받고 대답하기",
}

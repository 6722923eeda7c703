package catalog

import "github.com/partyhost/server/internal/models"

// liarCategories seeds the Liar keyword set.
var liarCategories = []Category{
	{CategoryID: "liar-animals", Game: models.GameLiar, Name: "Animals", Words: []string{
		"사자", "호랑이", "코끼리", "기린", "판다", "여우", "늑대", "고릴라", "수달", "앵무새",
	}},
	{CategoryID: "liar-places", Game: models.GameLiar, Name: "Places", Words: []string{
		"해변", "도서관", "공항", "놀이공원", "병원", "교실", "영화관", "편의점", "산", "지하철역",
	}},
	{CategoryID: "liar-food", Game: models.GameLiar, Name: "Food", Words: []string{
		"김치", "떡볶이", "피자", "초밥", "라멘", "치킨", "삼겹살", "만두", "냉면", "타코",
	}},
	{CategoryID: "liar-jobs", Game: models.GameLiar, Name: "Jobs", Words: []string{
		"의사", "소방관", "선생님", "요리사", "경찰관", "조종사", "배우", "가수", "변호사", "디자이너",
	}},
}

package generator

// mealTemplate はフォールバックカタログ内の1食分の定義。
type mealTemplate struct {
	name         string
	ingredients  []string
	instructions []string
	calories     int
}

// cuisineCatalog は1つの料理ジャンルに対する食事候補の集合。
// 各スライスは曜日インデックスの剰余で巡回使用される。
type cuisineCatalog struct {
	breakfasts []mealTemplate
	lunches    []mealTemplate
	dinners    []mealTemplate
	snacks     []mealTemplate
}

// catalogs はフォールバック生成器が使用する固定カタログ。
// キーは小文字のcuisine値。未知のcuisineはdefaultCatalogにフォールバックする。
var catalogs = map[string]cuisineCatalog{
	"indian": {
		breakfasts: []mealTemplate{
			{
				name:         "Vegetable Poha",
				ingredients:  []string{"flattened rice", "onion", "green peas", "turmeric", "mustard seeds", "peanuts"},
				instructions: []string{"Rinse the flattened rice and drain.", "Temper mustard seeds and peanuts in oil.", "Add onion, peas and turmeric, then fold in the rice.", "Steam for two minutes and serve with lemon."},
				calories:     320,
			},
			{
				name:         "Masala Oats Upma",
				ingredients:  []string{"rolled oats", "carrot", "beans", "curry leaves", "ginger"},
				instructions: []string{"Dry roast the oats.", "Saute the vegetables with curry leaves and ginger.", "Add water and oats, cook until thick."},
				calories:     300,
			},
			{
				name:         "Moong Dal Chilla",
				ingredients:  []string{"moong dal", "onion", "coriander", "green chili"},
				instructions: []string{"Soak and grind the dal to a batter.", "Mix in onion and coriander.", "Cook thin pancakes on a hot griddle."},
				calories:     340,
			},
		},
		lunches: []mealTemplate{
			{
				name:         "Rajma with Brown Rice",
				ingredients:  []string{"kidney beans", "brown rice", "tomato", "onion", "garam masala"},
				instructions: []string{"Pressure cook the soaked beans.", "Simmer in a tomato-onion gravy.", "Serve over steamed brown rice."},
				calories:     450,
			},
			{
				name:         "Palak Paneer with Roti",
				ingredients:  []string{"spinach", "paneer", "whole wheat flour", "garlic", "cumin"},
				instructions: []string{"Blanch and puree the spinach.", "Simmer paneer cubes in the puree.", "Serve with fresh rotis."},
				calories:     480,
			},
			{
				name:         "Chana Masala with Jeera Rice",
				ingredients:  []string{"chickpeas", "basmati rice", "cumin", "tomato", "amchur"},
				instructions: []string{"Cook the chickpeas in a spiced tomato gravy.", "Prepare cumin-tempered rice.", "Plate together with sliced onion."},
				calories:     460,
			},
		},
		dinners: []mealTemplate{
			{
				name:         "Vegetable Khichdi",
				ingredients:  []string{"rice", "moong dal", "carrot", "peas", "ghee", "cumin"},
				instructions: []string{"Rinse rice and dal together.", "Pressure cook with vegetables and cumin.", "Finish with a spoon of ghee."},
				calories:     400,
			},
			{
				name:         "Tandoori Cauliflower with Dal",
				ingredients:  []string{"cauliflower", "yogurt", "tandoori spice", "toor dal"},
				instructions: []string{"Marinate cauliflower florets in spiced yogurt.", "Roast until charred.", "Serve with simmered dal."},
				calories:     420,
			},
			{
				name:         "Vegetable Pulao with Raita",
				ingredients:  []string{"basmati rice", "mixed vegetables", "yogurt", "mint"},
				instructions: []string{"Saute vegetables with whole spices.", "Cook with rice and water.", "Serve with mint raita."},
				calories:     430,
			},
		},
		snacks: []mealTemplate{
			{
				name:         "Roasted Chana",
				ingredients:  []string{"roasted chickpeas", "chaat masala"},
				instructions: []string{"Toss roasted chickpeas with chaat masala."},
				calories:     150,
			},
			{
				name:         "Masala Buttermilk",
				ingredients:  []string{"yogurt", "water", "roasted cumin", "mint"},
				instructions: []string{"Whisk yogurt with water and spices.", "Chill before serving."},
				calories:     90,
			},
		},
	},
	"japanese": {
		breakfasts: []mealTemplate{
			{
				name:         "Tamago Kake Gohan",
				ingredients:  []string{"steamed rice", "egg", "soy sauce", "nori"},
				instructions: []string{"Crack the egg over hot rice.", "Season with soy sauce and shredded nori."},
				calories:     350,
			},
			{
				name:         "Miso Soup with Rice and Pickles",
				ingredients:  []string{"miso paste", "tofu", "wakame", "steamed rice", "pickled vegetables"},
				instructions: []string{"Dissolve miso in dashi.", "Add tofu and wakame.", "Serve with rice and pickles."},
				calories:     330,
			},
		},
		lunches: []mealTemplate{
			{
				name:         "Salmon Onigiri Set",
				ingredients:  []string{"rice", "grilled salmon", "nori", "sesame"},
				instructions: []string{"Flake the grilled salmon.", "Shape rice balls around the filling.", "Wrap with nori."},
				calories:     420,
			},
			{
				name:         "Soba with Dipping Sauce",
				ingredients:  []string{"buckwheat noodles", "mentsuyu", "scallion", "wasabi"},
				instructions: []string{"Boil and chill the noodles.", "Serve with dipping sauce and condiments."},
				calories:     400,
			},
		},
		dinners: []mealTemplate{
			{
				name:         "Chicken Teriyaki Bowl",
				ingredients:  []string{"chicken thigh", "soy sauce", "mirin", "rice", "broccoli"},
				instructions: []string{"Pan-sear the chicken.", "Glaze with soy and mirin.", "Serve over rice with steamed broccoli."},
				calories:     520,
			},
			{
				name:         "Yudofu Hot Pot",
				ingredients:  []string{"tofu", "kombu", "napa cabbage", "ponzu"},
				instructions: []string{"Simmer tofu and cabbage in kombu broth.", "Dip in ponzu to eat."},
				calories:     380,
			},
		},
		snacks: []mealTemplate{
			{
				name:         "Edamame",
				ingredients:  []string{"edamame", "sea salt"},
				instructions: []string{"Boil the pods and sprinkle with salt."},
				calories:     120,
			},
		},
	},
	"mediterranean": {
		breakfasts: []mealTemplate{
			{
				name:         "Greek Yogurt with Honey and Walnuts",
				ingredients:  []string{"greek yogurt", "honey", "walnuts"},
				instructions: []string{"Spoon yogurt into a bowl.", "Top with honey and walnuts."},
				calories:     310,
			},
			{
				name:         "Tomato and Olive Oil Toast",
				ingredients:  []string{"sourdough bread", "tomato", "olive oil", "oregano"},
				instructions: []string{"Toast the bread.", "Rub with grated tomato, drizzle oil, season."},
				calories:     290,
			},
		},
		lunches: []mealTemplate{
			{
				name:         "Chickpea Tabbouleh Bowl",
				ingredients:  []string{"bulgur", "chickpeas", "parsley", "lemon", "olive oil"},
				instructions: []string{"Soak the bulgur.", "Toss with chickpeas, herbs and lemon dressing."},
				calories:     440,
			},
			{
				name:         "Grilled Halloumi Salad",
				ingredients:  []string{"halloumi", "cucumber", "tomato", "mint", "olive oil"},
				instructions: []string{"Grill halloumi slices.", "Serve over the chopped salad."},
				calories:     430,
			},
		},
		dinners: []mealTemplate{
			{
				name:         "Baked Fish with Ratatouille",
				ingredients:  []string{"white fish", "zucchini", "eggplant", "tomato", "thyme"},
				instructions: []string{"Layer the vegetables in a baking dish.", "Place fish on top and bake."},
				calories:     460,
			},
			{
				name:         "Lentil Stew with Crusty Bread",
				ingredients:  []string{"brown lentils", "carrot", "celery", "bay leaf", "bread"},
				instructions: []string{"Simmer lentils with vegetables.", "Serve with bread."},
				calories:     480,
			},
		},
		snacks: []mealTemplate{
			{
				name:         "Hummus with Crudites",
				ingredients:  []string{"hummus", "carrot sticks", "cucumber sticks"},
				instructions: []string{"Serve the vegetables with hummus for dipping."},
				calories:     140,
			},
		},
	},
}

// defaultCatalog は未知のcuisine用の汎用カタログ。
var defaultCatalog = cuisineCatalog{
	breakfasts: []mealTemplate{
		{
			name:         "Oatmeal with Berries",
			ingredients:  []string{"rolled oats", "milk", "mixed berries", "honey"},
			instructions: []string{"Simmer oats in milk.", "Top with berries and honey."},
			calories:     320,
		},
		{
			name:         "Scrambled Eggs on Toast",
			ingredients:  []string{"eggs", "whole grain bread", "butter", "chives"},
			instructions: []string{"Soft-scramble the eggs.", "Serve on buttered toast."},
			calories:     350,
		},
	},
	lunches: []mealTemplate{
		{
			name:         "Grilled Chicken Salad",
			ingredients:  []string{"chicken breast", "mixed greens", "cherry tomatoes", "vinaigrette"},
			instructions: []string{"Grill and slice the chicken.", "Toss with greens and dressing."},
			calories:     450,
		},
		{
			name:         "Turkey and Avocado Wrap",
			ingredients:  []string{"tortilla", "turkey slices", "avocado", "lettuce"},
			instructions: []string{"Layer fillings on the tortilla.", "Roll tightly and halve."},
			calories:     430,
		},
	},
	dinners: []mealTemplate{
		{
			name:         "Baked Salmon with Quinoa",
			ingredients:  []string{"salmon fillet", "quinoa", "asparagus", "lemon"},
			instructions: []string{"Bake the salmon with lemon.", "Serve with quinoa and asparagus."},
			calories:     520,
		},
		{
			name:         "Vegetable Stir Fry with Rice",
			ingredients:  []string{"mixed vegetables", "rice", "soy sauce", "garlic"},
			instructions: []string{"Stir-fry vegetables with garlic.", "Serve over steamed rice."},
			calories:     440,
		},
	},
	snacks: []mealTemplate{
		{
			name:         "Apple with Peanut Butter",
			ingredients:  []string{"apple", "peanut butter"},
			instructions: []string{"Slice the apple and serve with peanut butter."},
			calories:     180,
		},
	},
}

// catalogFor はcuisineに対応するカタログを返す。未知の値はdefaultCatalog。
func catalogFor(cuisine string) cuisineCatalog {
	if c, ok := catalogs[cuisine]; ok {
		return c
	}
	return defaultCatalog
}

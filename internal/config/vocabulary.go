package config

// Built-in vocabularies. Every table here can be replaced from config.toml.

func defaultSpeaker() SpeakerConfig {
	return SpeakerConfig{
		Window:              200,
		SpeechVerbGap:       3,
		MalePronoun:         "他",
		FemalePronoun:       "她",
		PluralMarker:        "们",
		SpeechVerbs:         []string{"说", "问", "道", "答", "喊", "嘟囔", "低语"},
		NonSpeechCompounds:  []string{"知道", "味道", "道理", "难道", "道路", "问题", "答案", "说明书"},
		SentenceTerminators: "。！？!?…\n",
		Endearments: map[string][]string{
			"male":   {"丫头", "小笨蛋", "小傻瓜"},
			"female": {"学长", "哥哥"},
		},
		Topics: map[string][]string{
			"male":   {"代码", "项目", "加班", "调酒"},
			"female": {"论文", "导师", "画画"},
		},
	}
}

func defaultDialogue() DialogueConfig {
	return DialogueConfig{
		MinLength: 2,
		LyricPatterns: []string{
			`雨纷纷`,
			`旧故里`,
			`草木深`,
			`天青色等烟雨`,
			`故事的小黄花`,
		},
		NonDialoguePhrases:  []string{"片段", "正文", "待续", "未完待续", "完", "TODO"},
		NonDialoguePrefixes: []string{"注：", "注:", "备注", "PS", "#"},
		MonologueMarkers:    []string{"心想", "心里想", "暗想", "在心里说", "内心独白"},
	}
}

func defaultLexicon() LexiconConfig {
	return LexiconConfig{
		Stopwords: []string{
			"这个", "那个", "他的", "她的", "他们", "一个", "什么",
			"不是", "就是", "没有", "可以", "这样", "那样", "还是",
			"时候", "知道", "觉得", "好像", "真的", "然后", "已经",
			"只是", "因为", "所以", "但是", "虽然", "可是", "而且",
		},
		Locations: []string{
			"酒吧", "咖啡店", "咖啡厅", "海边", "海边散步", "教室", "公园", "阳台",
			"书房", "家里", "餐厅", "便利店", "院子", "院子里的咖啡店",
			"栈道", "长椅", "酒店", "办公室", "公司",
		},
		EmotionCategories: []string{"love", "sad", "comfort", "trauma", "hope"},
		Emotions: map[string][]string{
			"love":    {"喜欢", "爱", "心动", "想念", "拥抱", "亲吻", "暗恋", "温柔"},
			"sad":     {"难过", "哭", "眼泪", "伤心", "失落", "孤独", "遗憾", "沉默"},
			"comfort": {"安慰", "陪伴", "没关系", "别怕", "温暖", "放心", "守护", "抱抱"},
			"trauma":  {"噩梦", "害怕", "颤抖", "伤疤", "恐惧", "阴影", "发抖", "崩溃"},
			"hope":    {"希望", "明天", "未来", "阳光", "期待", "相信", "重逢", "梦想"},
		},
		EmotionSaturation: 5,
	}
}

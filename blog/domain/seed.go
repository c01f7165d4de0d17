package domain

import "time"

// SeedInterval is the gap between the dates of consecutive demo posts.
const SeedInterval = 5 * 24 * time.Hour

// demoDrafts lists the demonstration posts newest first.
var demoDrafts = []PostDraft{
	{
		Title:      "咖啡馆里的代码时光",
		Content:    "<p>很多人问我为什么喜欢在咖啡馆写代码。其实原因很简单：咖啡馆的白噪音会让我专注，而家里太安静反而容易分心。</p><p>今天在附近的独立咖啡馆坐了四个小时，把一个拖了两周的功能模块终于写完了。咖啡凉了换热的，音乐换了三个播放列表。</p><p>有时候环境的改变，就是最好的生产力工具。</p>",
		Category:   "技术",
		Tags:       []string{"编程", "效率", "咖啡"},
		CoverImage: "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?w=800&q=80",
	},
	{
		Title:      "深夜的上海外滩",
		Content:    "<p>夜里十一点，外滩的游客少了很多。江风很大，把路边的树吹得哗哗作响。对岸的陆家嘴灯火通明，倒映在黄浦江里，变成一片流动的光。</p><p>我一个人坐在堤岸上，想起第一次来上海是十年前的事。那时候刚毕业，口袋里几乎没有钱，却觉得整个世界都在等着自己去探索。</p>",
		Category:   "旅行",
		Tags:       []string{"上海", "夜景", "记忆"},
		CoverImage: "https://images.unsplash.com/photo-1538428494232-9c0d8a3ab403?w=800&q=80",
		Featured:   true,
	},
	{
		Title:      "关于独处这件事",
		Content:    "<p>我越来越享受独处的时间。不是因为孤僻，而是因为人只有在安静下来的时候，才能听见自己内心真实的声音。</p><p>每周我会给自己留出一个完整的下午。手机静音，泡一壶茶，或读书，或只是发呆。这段时间是我真正属于自己的时间。</p>",
		Category:   "随笔",
		Tags:       []string{"生活", "独处", "思考"},
		CoverImage: "https://images.unsplash.com/photo-1474377207190-a7d8b3334068?w=800&q=80",
	},
	{
		Title:      "用光影记录一座城市",
		Content:    "<p>摄影是一种减法。你拿着相机，面对繁杂的世界，最终按下快门的那一刻，你在做的是——选择留下什么，舍弃什么。</p><p>我最喜欢在清晨或黄昏拍摄城市。光线是斜的，影子是长的，普通的街角都会变得有戏剧性。</p>",
		Category:   "摄影",
		Tags:       []string{"街拍", "城市", "光影"},
		CoverImage: "https://images.unsplash.com/photo-1477959858617-67f85cf4f1df?w=800&q=80",
	},
	{
		Title:      "在京都的三天两夜",
		Content:    "<p>初秋的京都，银杏还没有完全转黄，但空气里已经有了凉意。清晨六点，哲学之道上几乎没有游客，只有晨光透过树隙，把石板路铺成一条金色的走廊。</p><p>我在这里住了三天。每天早晨步行去附近的茶室，点一壶煎茶，坐在靠窗的位置看路人经过。下午才去寺庙——等人群散去，光线变得柔和，建筑才真正地显出它的沉静。</p><p>旅行的意义，也许就是学会放慢。</p>",
		Category:   "旅行",
		Tags:       []string{"京都", "日本", "秋天"},
		CoverImage: "https://images.unsplash.com/photo-1493976040374-85c8e12f0c0e?w=800&q=80",
		Featured:   true,
	},
}

// DemoPosts returns the resolved demonstration posts, newest first. The first
// is dated now and each following post SeedInterval earlier than the previous.
func DemoPosts(now time.Time) []*Post {
	posts := make([]*Post, 0, len(demoDrafts))
	for i, d := range demoDrafts {
		d.Date = now.Add(-time.Duration(i) * SeedInterval)
		posts = append(posts, ResolveDraft(d, now))
	}
	return posts
}

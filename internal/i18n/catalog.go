package i18n

// catalog holds the fixed UI strings of the public site.  Content strings
// come from the database; only chrome (navigation, buttons, headings) is
// listed here.
var catalog = map[string][2]string{
	"nav.home":          {"Home", "الرئيسية"},
	"nav.products":      {"Products", "المنتجات"},
	"nav.blog":          {"Blog", "المدونة"},
	"nav.careers":       {"Careers", "الوظائف"},
	"nav.contact":       {"Contact", "اتصل بنا"},
	"nav.documents":     {"Downloads", "التحميلات"},
	"lang.switch":       {"العربية", "English"},
	"home.title":        {"Fertilizers and crop nutrition", "الأسمدة وتغذية المحاصيل"},
	"home.categories":   {"Our product lines", "خطوط منتجاتنا"},
	"home.latest":       {"Latest news", "آخر الأخبار"},
	"home.certificates": {"Certificates", "الشهادات"},
	"home.awards":       {"Awards", "الجوائز"},
	"products.title":    {"Products", "المنتجات"},
	"products.empty":    {"No products in this category yet.", "لا توجد منتجات في هذه الفئة بعد."},
	"product.comp":      {"Composition", "التركيب"},
	"product.usage":     {"Usage", "طريقة الاستخدام"},
	"product.element":   {"Element", "العنصر"},
	"product.value":     {"Value", "القيمة"},
	"product.crop":      {"Crop", "المحصول"},
	"product.dosage":    {"Dosage", "الجرعة"},
	"product.timing":    {"Timing", "التوقيت"},
	"blog.title":        {"News and insights", "أخبار ومقالات"},
	"blog.more":         {"Read more", "اقرأ المزيد"},
	"blog.next":         {"Older posts", "مقالات أقدم"},
	"blog.prev":         {"Newer posts", "مقالات أحدث"},
	"careers.title":     {"Join our team", "انضم إلى فريقنا"},
	"careers.closed":    {"This position is no longer accepting applications.", "لم تعد هذه الوظيفة تقبل الطلبات."},
	"careers.none":      {"There are no open positions right now.", "لا توجد وظائف شاغرة حاليًا."},
	"careers.apply":     {"Apply for this position", "قدّم على هذه الوظيفة"},
	"careers.closes":    {"Applications close", "آخر موعد للتقديم"},
	"careers.thanks":    {"Thank you, your application was received.", "شكرًا لك، تم استلام طلبك."},
	"contact.title":     {"Contact us", "اتصل بنا"},
	"contact.thanks":    {"Thank you, we will get back to you shortly.", "شكرًا لك، سنتواصل معك قريبًا."},
	"contact.offices":   {"Our offices", "مكاتبنا"},
	"docs.download":     {"Download", "تحميل"},
	"login.title":       {"Sign in", "تسجيل الدخول"},
	"login.failed":      {"Invalid email or password.", "البريد الإلكتروني أو كلمة المرور غير صحيحة."},
	"error.404":         {"Page not found", "الصفحة غير موجودة"},
	"error.413":         {"The upload is too large", "حجم الملف المرفوع كبير جدًا"},
	"error.503":         {"Service temporarily unavailable", "الخدمة غير متاحة مؤقتًا"},
	"error.500":         {"Something went wrong", "حدث خطأ ما"},
}

// T returns the UI string for key in l.  Unknown keys return the key, so a
// missing entry is visible on the page rather than blank.
func T(l Lang, key string) string {
	s, ok := catalog[key]
	if !ok {
		return key
	}
	if l == Arabic {
		return s[1]
	}
	return s[0]
}
